package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/png"

	_ "golang.org/x/image/webp"

	"palate-core/internal/adapter/store"
	"palate-core/internal/domain/entity"
	"palate-core/internal/domain/repository"
	"palate-core/internal/platform/logger"
)

const jpegQuality = 90

// ImageResolver serves the food photo for a canonical name through a two-tier
// read-through cache: local filesystem first, then the remote object store,
// then generation. Generated images are normalized to JPEG and written
// through to both tiers. The cache is unbounded and append-only: a canonical
// name maps to one photo forever.
type ImageResolver struct {
	gen    repository.ImageGenerator
	local  repository.ObjectStore // optional fast tier
	remote repository.ObjectStore
	log    *logger.Logger
}

func NewImageResolver(gen repository.ImageGenerator, local, remote repository.ObjectStore, log *logger.Logger) *ImageResolver {
	return &ImageResolver{
		gen:    gen,
		local:  local,
		remote: remote,
		log:    log.With("component", "image_resolver"),
	}
}

// Resolve returns the encoded photo bytes for the canonical food name. It
// fails only when both cache tiers miss and generation yields no usable
// image part. The response contract has no degraded "no image" form.
func (r *ImageResolver) Resolve(ctx context.Context, canonicalName string) ([]byte, error) {
	key := store.ImageKey(canonicalName)

	if r.local != nil {
		data, err := r.local.Get(ctx, key)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, entity.ErrObjectNotFound) {
			r.log.Warn("local image tier read failed", "key", key, "error", err)
		}
	}

	data, err := r.remote.Get(ctx, key)
	if err == nil {
		// Backfill the fast tier, best effort.
		if r.local != nil {
			if err := r.local.Put(ctx, key, data, "image/jpeg"); err != nil {
				r.log.Warn("local image tier backfill failed", "key", key, "error", err)
			}
		}
		return data, nil
	}
	if !errors.Is(err, entity.ErrObjectNotFound) {
		return nil, fmt.Errorf("remote image tier: %w", err)
	}

	encoded, err := r.generate(ctx, canonicalName)
	if err != nil {
		return nil, err
	}

	// Fire-and-store: persistence failure is logged, never retried and never
	// fails the request that already holds the bytes.
	if err := r.remote.Put(ctx, key, encoded, "image/jpeg"); err != nil {
		r.log.Warn("remote image tier write failed", "key", key, "error", err)
	}
	if r.local != nil {
		if err := r.local.Put(ctx, key, encoded, "image/jpeg"); err != nil {
			r.log.Warn("local image tier write failed", "key", key, "error", err)
		}
	}
	return encoded, nil
}

func (r *ImageResolver) generate(ctx context.Context, canonicalName string) ([]byte, error) {
	parts, err := r.gen.GenerateImage(ctx, imagePrompt(canonicalName))
	if err != nil {
		return nil, fmt.Errorf("image generation: %w", err)
	}

	for _, part := range parts {
		if part.Data == nil || part.Text != "" {
			continue
		}
		img, format, err := image.Decode(bytes.NewReader(part.Data))
		if err != nil {
			r.log.Warn("generated image part not decodable", "mime", part.MIMEType, "error", err)
			continue
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("jpeg encode: %w", err)
		}
		r.log.Info("generated food image", "name", canonicalName, "source_format", format, "bytes", buf.Len())
		return buf.Bytes(), nil
	}
	return nil, entity.ErrImageGeneration
}

func imagePrompt(foodName string) string {
	return fmt.Sprintf(
		"Generate a high-resolution, photorealistic image of %s for a food blog. "+
			"The food should be centered and viewed from the side, with no other objects in the image. "+
			"Use a plain white background — no shadows touching the border, gray tints, borders, or edges touching the frame. No reflections. "+
			"The image should have a wide 4:3 aspect ratio and be visually appealing. "+
			"No text, logos, or watermarks should be present in the image. "+
			"Make it look like a food stylist shot this photo in a photo box with a white background with a sony a7r5 camera. "+
			"The food should be fully visible and not cropped in any way or touching the edges of the image. "+
			"Enforce 4:3 wide aspect ratio and a white background.",
		foodName,
	)
}
