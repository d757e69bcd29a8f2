package userctx

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	userIDContextKey    contextKey = "user_id"
	profileIDContextKey contextKey = "profile_id"
)

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}

// WithProfileID tags the context with the active profile of the exchange, so
// assistant tool handlers know which profile the conversation is about.
func WithProfileID(ctx context.Context, profileID uuid.UUID) context.Context {
	return context.WithValue(ctx, profileIDContextKey, profileID)
}

func GetProfileID(ctx context.Context) (uuid.UUID, bool) {
	profileID, ok := ctx.Value(profileIDContextKey).(uuid.UUID)
	return profileID, ok
}
