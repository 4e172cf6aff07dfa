package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

// classify maps a genai error onto the domain failure taxonomy:
// quota errors wrap domain.ErrRateLimited, transient availability
// errors wrap domain.ErrUpstreamUnavailable, everything else passes
// through as permanent.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
			return fmt.Errorf("%w: %s", domain.ErrRateLimited, apiErr.Message)
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, apiErr.Message)
		default:
			return err
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	// Some transport paths flatten the API error into text.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "quota"), strings.Contains(msg, "resource_exhausted"):
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	case strings.Contains(msg, "unavailable"), strings.Contains(msg, "timeout"), strings.Contains(msg, "connection"):
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return err
}
