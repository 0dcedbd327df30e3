package api

import (
	"net/http"
	"time"

	"peakform/fitness-content/internal/domain"
	"peakform/fitness-content/internal/service"

	"github.com/gin-gonic/gin"
)

// VideoHandler holds the video service dependency.
type VideoHandler struct {
	videoService service.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(videoService service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// --- DTOs ---

// VideoRequest defines the expected JSON for creating or updating a video.
type VideoRequest struct {
	Title           string   `json:"title" binding:"required"`
	Source          string   `json:"source" binding:"required,oneof=file url"`
	URL             string   `json:"url,omitempty"`          // source == url
	ContentType     string   `json:"content_type,omitempty"` // source == file
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Visibility      string   `json:"visibility,omitempty"`
}

// VideoResponse is the DTO for returning video details. URL carries either
// the stored external link or a presigned download URL for file uploads.
type VideoResponse struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Source          domain.VideoSource `json:"source"`
	URL             string             `json:"url,omitempty"`
	UploadURL       string             `json:"uploadUrl,omitempty"`
	DurationSeconds *int               `json:"durationSeconds,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	Visibility      domain.Visibility  `json:"visibility"`
	ParentID        *string            `json:"parentId,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// MapVideoToResponse converts a domain Video to a VideoResponse DTO.
func MapVideoToResponse(v *domain.Video, downloadURL string) VideoResponse {
	if v == nil {
		return VideoResponse{}
	}
	resp := VideoResponse{
		ID:              v.ID.Hex(),
		Title:           v.Title,
		Source:          v.Source,
		URL:             v.URL,
		DurationSeconds: v.DurationSeconds,
		Tags:            v.Tags,
		Visibility:      v.Visibility,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
	if downloadURL != "" {
		resp.URL = downloadURL
	}
	if v.ParentID != nil {
		hex := v.ParentID.Hex()
		resp.ParentID = &hex
	}
	return resp
}

func toVideoInput(req *VideoRequest) service.VideoInput {
	return service.VideoInput{
		Title:           req.Title,
		Source:          domain.VideoSource(req.Source),
		URL:             req.URL,
		ContentType:     req.ContentType,
		DurationSeconds: req.DurationSeconds,
		Tags:            req.Tags,
		Visibility:      visibilityFromWire(req.Visibility),
	}
}

// --- Handler Methods ---

// AddVideo creates a video record; file uploads get a presigned PUT URL.
func (h *VideoHandler) AddVideo(c *gin.Context) {
	var req VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}

	upload, err := h.videoService.AddVideo(c.Request.Context(), owner, toVideoInput(&req))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	resp := MapVideoToResponse(upload.Video, "")
	resp.UploadURL = upload.UploadURL
	c.JSON(http.StatusCreated, resp)
}

// GetVideo returns a video; file uploads come with a presigned GET URL.
func (h *VideoHandler) GetVideo(c *gin.Context) {
	videoID, ok := parseObjectIDParam(c, "videoId")
	if !ok {
		return
	}
	video, downloadURL, err := h.videoService.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapVideoToResponse(video, downloadURL))
}

// GetOwnVideos lists the authenticated owner's videos.
func (h *VideoHandler) GetOwnVideos(c *gin.Context) {
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	videos, err := h.videoService.GetVideosByOwner(c.Request.Context(), owner)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	responses := make([]VideoResponse, len(videos))
	for i := range videos {
		responses[i] = MapVideoToResponse(&videos[i], "")
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateVideo modifies a video the owner holds.
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	videoID, ok := parseObjectIDParam(c, "videoId")
	if !ok {
		return
	}
	var req VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}

	video, err := h.videoService.UpdateVideo(c.Request.Context(), owner, videoID, toVideoInput(&req))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapVideoToResponse(video, ""))
}

// DeleteVideo soft-deletes a video the owner holds.
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	videoID, ok := parseObjectIDParam(c, "videoId")
	if !ok {
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	if err := h.videoService.DeleteVideo(c.Request.Context(), owner, videoID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CloneVideo copies a foreign video record into the owner's namespace.
func (h *VideoHandler) CloneVideo(c *gin.Context) {
	videoID, ok := parseObjectIDParam(c, "videoId")
	if !ok {
		return
	}
	owner, err := getOwnerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify owner from token.")
		return
	}
	clone, err := h.videoService.CloneVideo(c.Request.Context(), owner, videoID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapVideoToResponse(clone, ""))
}
