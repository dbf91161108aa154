package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/generalink/backend/internal/models"
	"github.com/generalink/backend/internal/services"
)

type ProfileHandler struct {
	users      services.UserService
	photos     *services.PhotoService
	moderation *services.ModerationService
	maxSizeMB  int64
}

// NewProfileHandler wires profile reads, shallow-merge updates, and photo
// upload. moderation may be nil to skip SafeSearch screening.
func NewProfileHandler(users services.UserService, photos *services.PhotoService, moderation *services.ModerationService, maxSizeMB int64) *ProfileHandler {
	return &ProfileHandler{
		users:      users,
		photos:     photos,
		moderation: moderation,
		maxSizeMB:  maxSizeMB,
	}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing userId"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[GetProfile] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("profile", user.Profile)))
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.UserID == "" || len(req.Updates) == 0 {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing userId or updates"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	profile, err := h.users.UpdateProfile(ctx, req.UserID, req.Updates)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[UpdateProfile] user=%s error=%v", req.UserID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("profile", profile)))
}

func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSizeMB*1024*1024)
	if err := r.ParseMultipartForm(h.maxSizeMB * 1024 * 1024); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("File too large or invalid form data"))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("No photo file provided"))
		return
	}
	defer file.Close()

	userID := r.FormValue("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing userId"))
		return
	}
	if header.Filename == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("No file selected"))
		return
	}
	if _, ok := services.AllowedPhotoFilename(header.Filename); !ok {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid file type. Allowed: png, jpg, jpeg, gif, webp"))
		return
	}

	photoBytes, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Failed to read photo"))
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if h.moderation != nil {
		if err := h.moderation.ScreenPhoto(ctx, userID, photoBytes); err != nil {
			if err == services.ErrImageRejected {
				writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse("Photo rejected by content screening"))
				return
			}
			log.Printf("[UploadPhoto] moderation error user=%s: %v", userID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to process photo"))
			return
		}
	}

	photoURL, err := h.photos.Save(userID, header.Filename, bytes.NewReader(photoBytes))
	if err != nil {
		log.Printf("[UploadPhoto] save error user=%s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to upload photo"))
		return
	}

	if _, err := h.users.UpdateProfile(ctx, userID, map[string]interface{}{"photo": photoURL}); err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[UploadPhoto] profile update error user=%s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("photoUrl", photoURL)))
}
