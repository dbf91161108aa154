package services

import (
	"context"
	"encoding/base64"
	"errors"
	"log"

	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// ErrImageRejected is returned when SafeSearch flags a photo as unsafe.
var ErrImageRejected = errors.New("image rejected: violates community guidelines")

// ModerationService runs Vision SafeSearch on uploaded profile photos before
// they are persisted. Rejections record a strike against the uploader.
type ModerationService struct {
	flagSvc *MongoUserFlagService
}

// NewModerationService creates the moderation pass. flagSvc may be nil if
// strike tracking is not wired up.
func NewModerationService(flagSvc *MongoUserFlagService) *ModerationService {
	return &ModerationService{flagSvc: flagSvc}
}

// ScreenPhoto runs SafeSearch on raw image bytes. Safe photos return nil;
// unsafe ones record a strike and return ErrImageRejected.
func (m *ModerationService) ScreenPhoto(ctx context.Context, userID string, imageBytes []byte) error {
	ss, err := DetectSafeSearch(ctx, imageBytes)
	if err != nil {
		return err
	}

	if isLikelyUnsafe(ss.Adult) || isLikelyUnsafe(ss.Violence) || isLikelyUnsafe(ss.Racy) {
		log.Printf("[moderation] photo rejected user=%s adult=%s violence=%s racy=%s",
			userID, ss.Adult, ss.Violence, ss.Racy)
		if m.flagSvc != nil && userID != "" {
			_, _ = m.flagSvc.AddStrike(ctx, userID)
		}
		return ErrImageRejected
	}
	return nil
}

func isLikelyUnsafe(likelihood string) bool {
	return likelihood == "LIKELY" || likelihood == "VERY_LIKELY"
}

type SafeSearchResult struct {
	Adult    string
	Violence string
	Racy     string
	Spoof    string
	Medical  string
}

// DetectSafeSearch runs Vision SAFE_SEARCH_DETECTION on inline image content.
// Uses Application Default Credentials.
func DetectSafeSearch(ctx context.Context, imageBytes []byte) (*SafeSearchResult, error) {
	svc, err := vision.NewService(ctx, option.WithScopes(vision.CloudPlatformScope))
	if err != nil {
		return nil, err
	}

	req := &vision.AnnotateImageRequest{
		Image: &vision.Image{
			Content: base64.StdEncoding.EncodeToString(imageBytes),
		},
		Features: []*vision.Feature{
			{Type: "SAFE_SEARCH_DETECTION"},
		},
	}

	call := svc.Images.Annotate(&vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{req},
	})
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Responses) == 0 {
		return &SafeSearchResult{}, nil
	}
	ss := resp.Responses[0].SafeSearchAnnotation
	if ss == nil {
		return &SafeSearchResult{}, nil
	}
	return &SafeSearchResult{
		Adult:    ss.Adult,
		Violence: ss.Violence,
		Racy:     ss.Racy,
		Spoof:    ss.Spoof,
		Medical:  ss.Medical,
	}, nil
}
