package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram-app/backend/config"
)

// ImageService stores recipe images submitted as base64 data URLs in
// S3 and returns the public URL. Plain URL references pass through
// unchanged.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// Store implements ImageStore.
func (s *ImageService) Store(ctx context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	contentType, data, err := decodeDataURL(image)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), extensionFor(contentType))
	return s.upload(ctx, data, fileName, contentType)
}

func (s *ImageService) upload(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("uploaded recipe image to %s", publicURL)
	return publicURL, nil
}

// decodeDataURL splits "data:<mime>;base64,<payload>" into its content
// type and decoded bytes.
func decodeDataURL(image string) (string, []byte, error) {
	meta, payload, found := strings.Cut(image, ",")
	if !found {
		return "", nil, fmt.Errorf("malformed image data URL")
	}
	meta = strings.TrimPrefix(meta, "data:")
	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("unsupported image encoding %q", encoding)
	}
	if contentType == "" {
		contentType = "image/png"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode image payload: %w", err)
	}
	return contentType, data, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "png"
	}
}
