package profile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/honors-hub/adapters/event"
	"github.com/khoahotran/honors-hub/internal/domain/profile"
	"github.com/khoahotran/honors-hub/pkg/apperror"
)

type UploadAvatarInput struct {
	ProfileID string
	File      io.Reader
}

type UploadAvatarOutput struct {
	Profile *profile.Profile
}

// ExecuteUploadAvatar stores the original image right away. The face-cropped
// rendition replaces it once the worker has processed the avatar event.
func (uc *ProfileUseCase) ExecuteUploadAvatar(ctx context.Context, input UploadAvatarInput) (*UploadAvatarOutput, error) {
	if uc.uploader == nil {
		return nil, apperror.NewAppError(apperror.ErrMisconfigured, "Media storage is not configured", "CLOUDINARY_CLOUD_NAME is empty", nil)
	}
	if input.File == nil {
		return nil, apperror.NewInvalidInput("avatar file is required", nil)
	}

	folder := fmt.Sprintf("profiles/%s", input.ProfileID)
	name := uuid.NewString()
	url, err := uc.uploader.Upload(ctx, input.File, folder, name)
	if err != nil {
		return nil, apperror.NewInternal("failed to upload avatar", err)
	}
	publicID := folder + "/" + name

	p, err := uc.profileRepo.Update(ctx, input.ProfileID, profile.Update{PhotoURL: &url}, uc.clock.Now())
	uc.invalidate(ctx, input.ProfileID)
	if err != nil {
		go func() {
			if err := uc.uploader.Delete(context.Background(), publicID); err != nil {
				uc.logger.Error("Failed to delete orphaned avatar", err, zap.String("public_id", publicID))
			}
		}()
		return nil, err
	}

	go func() {
		err := uc.publisher.PublishAvatarEvent(context.Background(), event.AvatarEventPayload{
			ProfileID:  input.ProfileID,
			PublicID:   publicID,
			OccurredAt: uc.clock.Now(),
		})
		if err != nil {
			uc.logger.Error("Failed to publish avatar event", err, zap.String("profile_id", input.ProfileID))
		}
	}()

	return &UploadAvatarOutput{Profile: p}, nil
}

// ProcessAvatar is run by the worker for every avatar event.
func (uc *ProfileUseCase) ProcessAvatar(ctx context.Context, payload event.AvatarEventPayload) error {
	l := uc.logger.With(zap.String("profile_id", payload.ProfileID), zap.String("public_id", payload.PublicID))
	l.Info("Worker UseCase processing avatar event")

	if uc.uploader == nil {
		return apperror.NewInternal("avatar event received without media storage", nil)
	}

	cropURL, err := uc.uploader.FaceCropURL(payload.PublicID)
	if err != nil {
		return apperror.NewInternal("failed to build face crop URL", err)
	}

	_, err = uc.profileRepo.Update(ctx, payload.ProfileID, profile.Update{PhotoURL: &cropURL}, uc.clock.Now())
	uc.invalidate(ctx, payload.ProfileID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			l.Warn("Profile not found, skipping avatar event")
			return nil
		}
		return err
	}

	l.Info("Successfully processed avatar")
	return nil
}
