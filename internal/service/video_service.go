package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/repository"
	"peakform/fitness-content/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoInput carries the caller-editable fields of a video.
type VideoInput struct {
	Title           string
	Source          domain.VideoSource
	URL             string // Source == url
	ContentType     string // Source == file; needed for the presigned PUT
	DurationSeconds *int
	Tags            []string
	Visibility      domain.Visibility
}

// VideoUpload is the answer to a file-backed video creation: the record
// plus the presigned URL the client PUTs the file to.
type VideoUpload struct {
	Video     *domain.Video
	UploadURL string
}

// VideoService manages the video library and its S3-backed files.
type VideoService interface {
	AddVideo(ctx context.Context, owner domain.OwnerRef, input VideoInput) (*VideoUpload, error)
	GetVideo(ctx context.Context, videoID primitive.ObjectID) (*domain.Video, string, error)
	GetVideosByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Video, error)
	UpdateVideo(ctx context.Context, owner domain.OwnerRef, videoID primitive.ObjectID, input VideoInput) (*domain.Video, error)
	DeleteVideo(ctx context.Context, owner domain.OwnerRef, videoID primitive.ObjectID) error
	// CloneVideo gives the caller a private copy of a foreign video
	// record. The underlying S3 object is shared, not copied.
	CloneVideo(ctx context.Context, owner domain.OwnerRef, videoID primitive.ObjectID) (*domain.Video, error)
}

type videoService struct {
	tx          repository.TxRunner
	videos      repository.VideoRepository
	exercises   repository.ExerciseRepository
	workouts    repository.WorkoutRepository
	fileStorage storage.FileStorage
}

// NewVideoService creates a new instance of videoService.
func NewVideoService(
	tx repository.TxRunner,
	videos repository.VideoRepository,
	exercises repository.ExerciseRepository,
	workouts repository.WorkoutRepository,
	fileStorage storage.FileStorage,
) VideoService {
	return &videoService{
		tx:          tx,
		videos:      videos,
		exercises:   exercises,
		workouts:    workouts,
		fileStorage: fileStorage,
	}
}

// AddVideo creates a video record. File-backed videos get a fresh object
// key and a presigned upload URL; URL-backed ones just store the link.
func (s *videoService) AddVideo(ctx context.Context, owner domain.OwnerRef, input VideoInput) (*VideoUpload, error) {
	if input.Title == "" {
		return nil, ErrValidationFailed
	}

	video := &domain.Video{
		Title:           input.Title,
		Source:          input.Source,
		DurationSeconds: input.DurationSeconds,
		Tags:            input.Tags,
		Visibility:      input.Visibility,
		Ownership: domain.Ownership{
			OwnerID:   owner.OwnerID,
			OwnerRole: owner.Role,
		},
	}

	var uploadURL string
	switch input.Source {
	case domain.VideoSourceURL:
		if input.URL == "" {
			return nil, ErrValidationFailed
		}
		video.URL = input.URL
	case domain.VideoSourceFile:
		video.FileKey = fmt.Sprintf("videos/%s/%s", owner.OwnerID.Hex(), uuid.NewString())
		url, err := s.fileStorage.GeneratePresignedUploadURL(ctx, video.FileKey, input.ContentType, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, err
		}
		uploadURL = url
	default:
		return nil, ErrValidationFailed
	}

	if _, err := s.videos.Create(ctx, video); err != nil {
		return nil, err
	}
	return &VideoUpload{Video: video, UploadURL: uploadURL}, nil
}

// GetVideo retrieves a video; file-backed ones come with a presigned
// download URL.
func (s *videoService) GetVideo(ctx context.Context, videoID primitive.ObjectID) (*domain.Video, string, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	var downloadURL string
	if video.Source == domain.VideoSourceFile && video.FileKey != "" {
		downloadURL, err = s.fileStorage.GeneratePresignedDownloadURL(ctx, video.FileKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, "", err
		}
	}
	return video, downloadURL, nil
}

// GetVideosByOwner retrieves all videos of an owner namespace.
func (s *videoService) GetVideosByOwner(ctx context.Context, owner domain.OwnerRef) ([]domain.Video, error) {
	return s.videos.GetByOwner(ctx, owner)
}

// UpdateVideo modifies a video the caller owns. The source kind and file
// key are fixed at creation.
func (s *videoService) UpdateVideo(ctx context.Context, owner domain.OwnerRef, videoID primitive.ObjectID, input VideoInput) (*domain.Video, error) {
	if input.Title == "" {
		return nil, ErrValidationFailed
	}

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !video.OwnedBy(owner) {
		return nil, ErrAccessDenied
	}

	video.Title = input.Title
	video.DurationSeconds = input.DurationSeconds
	video.Tags = input.Tags
	video.Visibility = input.Visibility
	if video.Source == domain.VideoSourceURL && input.URL != "" {
		video.URL = input.URL
	}

	if err := s.videos.Update(ctx, video); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return video, nil
}

// DeleteVideo soft-deletes a video record. The S3 object is removed only
// when no clone shares it (clones reference the same file key).
func (s *videoService) DeleteVideo(ctx context.Context, owner domain.OwnerRef, videoID primitive.ObjectID) error {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.videos.SoftDelete(ctx, videoID, owner); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	// Original uploads own their file; clones share the original's.
	if video.Source == domain.VideoSourceFile && video.FileKey != "" && video.ParentID == nil {
		if err := s.fileStorage.DeleteObject(ctx, video.FileKey); err != nil {
			log.Printf("WARN: video %s deleted but object %q not removed: %v", videoID.Hex(), video.FileKey, err)
		}
	}
	return nil
}

// CloneVideo resolves a foreign video into a private copy.
func (s *videoService) CloneVideo(ctx context.Context, owner domain.OwnerRef, videoID primitive.ObjectID) (*domain.Video, error) {
	source, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if source.OwnedBy(owner) {
		return nil, ErrAlreadyOwned
	}

	resolver := newOwnershipResolver(s.videos, s.exercises, s.workouts)
	var cloneID primitive.ObjectID
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		res, err := resolver.resolveVideo(ctx, newCloneMemo(), videoID, owner)
		if err != nil {
			return err
		}
		cloneID = res.ID
		return nil
	})
	if err != nil {
		return nil, wrapTxErr(err)
	}
	return s.videos.GetByID(ctx, cloneID)
}
