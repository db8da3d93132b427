package enums

import "fmt"

// MediaKind names the storage namespace an uploaded file belongs to.
type MediaKind string

const (
	MediaKindProfilePicture       MediaKind = "profile_picture"
	MediaKindTutorialVideo        MediaKind = "tutorial_video"
	MediaKindTutorialThumbnail    MediaKind = "tutorial_thumbnail"
	MediaKindPostImage            MediaKind = "post_image"
	MediaKindVerificationDocument MediaKind = "verification_document"
)

var validMediaKinds = []MediaKind{
	MediaKindProfilePicture,
	MediaKindTutorialVideo,
	MediaKindTutorialThumbnail,
	MediaKindPostImage,
	MediaKindVerificationDocument,
}

// String implements fmt.Stringer.
func (m MediaKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MediaKind.
func (m MediaKind) IsValid() bool {
	for _, candidate := range validMediaKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMediaKind converts raw input into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	for _, candidate := range validMediaKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}
