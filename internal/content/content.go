// Package content maps a post's rich content (interleaved text blocks and a
// single optional image) to the one persisted text field, and back.
package content

import "strings"

// Marker is the reserved literal that stands in for the embedded image
// inside a persisted post payload.
const Marker = "[IMAGE]"

// PhotoPostLabel replaces a marker-only payload in list previews.
const PhotoPostLabel = "(사진 게시글)"

// Block kinds.
const (
	KindText  = "text"
	KindImage = "image"
)

// Block is one unit of authored content: either a text block carrying its
// payload or an image block carrying the image URL.
type Block struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// TextBlock returns a text block.
func TextBlock(text string) Block {
	return Block{Kind: KindText, Text: text}
}

// ImageBlock returns an image block.
func ImageBlock(url string) Block {
	return Block{Kind: KindImage, URL: url}
}

// Encode flattens an ordered block sequence into the persisted payload.
// The image block (at most one is supported) is replaced by the marker
// literal; blocks are joined with newlines, preserving order. Empty text
// blocks contribute nothing, so an image-only sequence persists as the
// bare marker.
func Encode(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case KindImage:
			parts = append(parts, Marker)
		default:
			if b.Text != "" {
				parts = append(parts, b.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// Decode reconstructs an approximate block sequence from a persisted
// payload and the post's stored image URL.
//
// Marker present: exactly two text segments around one image block.
// No marker but an image URL: legacy scheme, image assumed to precede all
// text (lossy with respect to original block order).
// No image URL: the payload is a single text block.
func Decode(payload, imageURL string) []Block {
	if strings.Contains(payload, Marker) {
		before, after, _ := strings.Cut(payload, Marker)
		return []Block{
			TextBlock(strings.TrimSuffix(before, "\n")),
			ImageBlock(imageURL),
			TextBlock(strings.TrimPrefix(after, "\n")),
		}
	}
	if imageURL != "" {
		return []Block{ImageBlock(imageURL), TextBlock(payload)}
	}
	return []Block{TextBlock(payload)}
}

// HasImage reports whether the payload embeds an image via the marker.
func HasImage(payload string) bool {
	return strings.Contains(payload, Marker)
}

// Preview returns the list-view text for a payload. A payload that is
// exactly the marker becomes the photo-post placeholder label; otherwise
// the marker line is dropped and the remaining text flattened to one line.
func Preview(payload string) string {
	if strings.TrimSpace(payload) == Marker {
		return PhotoPostLabel
	}
	lines := strings.Split(payload, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == Marker {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}
