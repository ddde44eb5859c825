package cloudinary

import (
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.uber.org/zap"

	"github.com/rajivgeraev/iv-catalog/internal/config"
)

// CloudinaryService builds resized thumbnail URLs for listing images.
// Images stay where the listing feed hosts them; Cloudinary fetches and
// transforms them on first request.
type CloudinaryService struct {
	cld            *cloudinary.Cloudinary
	transformation string
	logger         *zap.Logger
}

// NewCloudinaryService returns a disabled service when no cloud name is configured
func NewCloudinaryService(cfg *config.Config, logger *zap.Logger) (*CloudinaryService, error) {
	s := &CloudinaryService{
		transformation: cfg.CloudinaryConfig.Transformation,
		logger:         logger,
	}
	if cfg.CloudinaryConfig.CloudName == "" {
		logger.Info("Cloudinary not configured, thumbnails disabled")
		return s, nil
	}

	cld, err := cloudinary.NewFromParams(
		cfg.CloudinaryConfig.CloudName,
		cfg.CloudinaryConfig.APIKey,
		cfg.CloudinaryConfig.APISecret,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	s.cld = cld
	return s, nil
}

// Enabled reports whether thumbnails are generated
func (s *CloudinaryService) Enabled() bool {
	return s != nil && s.cld != nil
}

// ThumbnailURL returns the fetch URL for imageURL, or "" when the service is
// disabled, the image is empty or the URL cannot be built.
func (s *CloudinaryService) ThumbnailURL(imageURL string) string {
	if !s.Enabled() || imageURL == "" {
		return ""
	}

	img, err := s.cld.Image(imageURL)
	if err != nil {
		s.logger.Warn("Invalid listing image", zap.String("image", imageURL), zap.Error(err))
		return ""
	}
	img.DeliveryType = "fetch"
	img.Transformation = s.transformation

	url, err := img.String()
	if err != nil {
		s.logger.Warn("Failed to build thumbnail URL", zap.String("image", imageURL), zap.Error(err))
		return ""
	}
	return url
}
