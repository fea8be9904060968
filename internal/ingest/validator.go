package ingest

import (
	"fmt"
	"strings"
)

const (
	maxTitleLength  = 1024
	maxBodyLength   = 4 << 20
	maxAnchorTexts  = 512
	maxAnchorLength = 2048
)

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s:%s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// Validate checks the request's field constraints and returns a
// ValidationError listing every violation.
func Validate(req *Request) error {
	errs := make(map[string]string)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs["title"] = "title is required"
	} else if len(title) > maxTitleLength {
		errs["title"] = fmt.Sprintf("title must be at most %d characters", maxTitleLength)
	}
	if strings.TrimSpace(req.Body) == "" {
		errs["body"] = "body is required and must not be empty"
	} else if len(req.Body) > maxBodyLength {
		errs["body"] = fmt.Sprintf("body must be at most %d bytes", maxBodyLength)
	}
	if len(req.AnchorTexts) > maxAnchorTexts {
		errs["anchor_texts"] = fmt.Sprintf("at most %d anchor texts are allowed", maxAnchorTexts)
	} else {
		for i, a := range req.AnchorTexts {
			if len(a) > maxAnchorLength {
				errs["anchor_texts"] = fmt.Sprintf("anchor text %d exceeds %d characters", i, maxAnchorLength)
				break
			}
		}
	}
	if req.PageViews < 0 {
		errs["page_views"] = "page_views must not be negative"
	}
	if req.PageRank < 0 {
		errs["page_rank"] = "page_rank must not be negative"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
