package board

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cover images arrive as one pipe-delimited string of five fields:
// id|thumbUrl|fullUrl|linkHTML|userName. A first field of "uploaded"
// marks user-uploaded content, where the URL fields carry the stored
// image location and attribution does not apply.
const uploadedSentinel = "uploaded"

var errMissingImageFields = errors.New("missing image fields")

type coverImage struct {
	ID       string
	ThumbURL string
	FullURL  string
	LinkHTML string
	UserName string
}

func parseCoverImage(raw string) (*coverImage, error) {
	parts := strings.Split(raw, "|")
	for len(parts) < 5 {
		parts = append(parts, "")
	}
	id, thumbURL, fullURL, linkHTML, userName := parts[0], parts[1], parts[2], parts[3], parts[4]

	if id == uploadedSentinel {
		return &coverImage{
			ID:       fmt.Sprintf("uploaded-%d", time.Now().UnixMilli()),
			ThumbURL: thumbURL,
			FullURL:  fullURL,
			LinkHTML: "",
			UserName: "Custom Upload",
		}, nil
	}

	if id == "" || thumbURL == "" || fullURL == "" || linkHTML == "" || userName == "" {
		return nil, errMissingImageFields
	}

	return &coverImage{
		ID:       id,
		ThumbURL: thumbURL,
		FullURL:  fullURL,
		LinkHTML: linkHTML,
		UserName: userName,
	}, nil
}
