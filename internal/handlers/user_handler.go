package handlers

import (
	"log"
	"net/http"

	"github.com/generalink/backend/internal/models"
	"github.com/generalink/backend/internal/services"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers returns every account flattened for the admin dashboard. The
// route sits behind JWTAuth plus RequireAdmin.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	users, err := h.users.ListAll(ctx)
	if err != nil {
		log.Printf("[ListUsers] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load users"))
		return
	}

	flattened := make([]map[string]interface{}, 0, len(users))
	for _, user := range users {
		flattened = append(flattened, user.Flatten())
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(payload("users", flattened)))
}
