package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rgonek/richdoc/markup"
)

// ErrUnresolved indicates that an image reference could not be resolved by a hook.
var ErrUnresolved = errors.New("unresolved image reference")

// ResolutionMode controls how unresolved hook results are handled.
type ResolutionMode string

const (
	// ResolutionBestEffort continues the build and falls back to the built-in caption.
	ResolutionBestEffort ResolutionMode = "best_effort"
	// ResolutionStrict fails the build when a hook returns ErrUnresolved.
	ResolutionStrict ResolutionMode = "strict"
)

// ImageRenderHook can override the placeholder caption written for an image.
type ImageRenderHook func(ctx context.Context, in ImageRenderInput) (ImageRenderOutput, error)

// ImageRenderInput describes an img element being rendered.
type ImageRenderInput struct {
	Src   string
	Alt   string
	Title string
}

// ImageRenderOutput contains the hook-provided caption.
type ImageRenderOutput struct {
	Caption string
	Handled bool
}

// imageCaption returns the hook caption or the alt text, falling back to the
// source URL.
func (s *state) imageCaption(n *nodeAttrs) (string, error) {
	fallback := n.alt
	if fallback == "" {
		fallback = n.src
	}

	if s.config.ImageHook == nil {
		return fallback, nil
	}
	if err := s.checkContext(); err != nil {
		return "", err
	}

	input := ImageRenderInput{Src: n.src, Alt: n.alt, Title: n.title}
	output, err := s.config.ImageHook(s.ctx, input)
	if err != nil {
		if errors.Is(err, ErrUnresolved) {
			if s.config.ResolutionMode == ResolutionStrict {
				return "", fmt.Errorf("unresolved image reference %q: %w", input.Src, err)
			}
			s.addWarning(
				markup.WarningUnresolvedReference,
				"img",
				fmt.Sprintf("unresolved image reference %q; using fallback caption", input.Src),
			)
			return fallback, nil
		}
		return "", fmt.Errorf("image hook failed: %w", err)
	}

	if !output.Handled {
		return fallback, nil
	}
	caption := strings.TrimSpace(output.Caption)
	if caption == "" {
		return "", errors.New("invalid image hook output: handled output requires a non-empty caption")
	}
	return caption, nil
}

type nodeAttrs struct {
	src   string
	alt   string
	title string
}
