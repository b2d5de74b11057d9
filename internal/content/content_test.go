package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeInterleavedBlocks(t *testing.T) {
	blocks := []Block{
		TextBlock("intro text"),
		ImageBlock("https://cdn.example.com/scalp.jpg"),
		TextBlock("outro text"),
	}

	assert.Equal(t, "intro text\n[IMAGE]\noutro text", Encode(blocks))
}

func TestEncodeImageOnly(t *testing.T) {
	assert.Equal(t, Marker, Encode([]Block{ImageBlock("https://x/img.png")}))
}

func TestDecodeCurrentScheme(t *testing.T) {
	blocks := Decode("intro text\n[IMAGE]\noutro text", "https://x/img.png")

	require.Len(t, blocks, 3)
	assert.Equal(t, TextBlock("intro text"), blocks[0])
	assert.Equal(t, ImageBlock("https://x/img.png"), blocks[1])
	assert.Equal(t, TextBlock("outro text"), blocks[2])
}

func TestDecodeLegacyTopLoadedImage(t *testing.T) {
	// No marker but an image URL: older rows assume the image precedes
	// all text. The decode is lossy and must not be treated as reversible.
	blocks := Decode("just some text", "https://x/legacy.png")

	require.Len(t, blocks, 2)
	assert.Equal(t, KindImage, blocks[0].Kind)
	assert.Equal(t, TextBlock("just some text"), blocks[1])
}

func TestDecodeTextOnly(t *testing.T) {
	blocks := Decode("plain body", "")

	require.Len(t, blocks, 1)
	assert.Equal(t, TextBlock("plain body"), blocks[0])
}

func TestRoundTripCurrentScheme(t *testing.T) {
	cases := []struct {
		payload  string
		imageURL string
	}{
		{"intro text\n[IMAGE]\noutro text", "https://x/img.png"},
		{"[IMAGE]\nonly outro", "https://x/img.png"},
		{"only intro\n[IMAGE]", "https://x/img.png"},
		{"[IMAGE]", "https://x/img.png"},
		{"no image at all", ""},
	}

	for _, tc := range cases {
		decoded := Decode(tc.payload, tc.imageURL)
		assert.Equal(t, tc.payload, Encode(decoded), "payload %q must survive decode/encode", tc.payload)
	}
}

func TestDecodeEncodeRestoresTextAndImagePresence(t *testing.T) {
	blocks := []Block{
		TextBlock("before"),
		ImageBlock("https://x/a.png"),
		TextBlock("after"),
	}
	restored := Decode(Encode(blocks), "https://x/a.png")

	var text []string
	images := 0
	for _, b := range restored {
		switch b.Kind {
		case KindImage:
			images++
		case KindText:
			if b.Text != "" {
				text = append(text, b.Text)
			}
		}
	}
	assert.Equal(t, 1, images)
	assert.Equal(t, []string{"before", "after"}, text)
}

func TestPreviewMarkerOnlyShowsPlaceholder(t *testing.T) {
	assert.Equal(t, PhotoPostLabel, Preview("[IMAGE]"))
	assert.Equal(t, PhotoPostLabel, Preview("  [IMAGE]  "))
}

func TestPreviewStripsMarkerLine(t *testing.T) {
	got := Preview("intro\n[IMAGE]\noutro")

	assert.Equal(t, "intro outro", got)
	assert.NotContains(t, got, Marker)
}

func TestHasImage(t *testing.T) {
	assert.True(t, HasImage("a\n[IMAGE]\nb"))
	assert.False(t, HasImage("a plain post"))
}
