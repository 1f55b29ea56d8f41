package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
)

// AlbumPhoto is one site photo queued for the album.
type AlbumPhoto struct {
	Caption string
	Data    []byte
	Ext     extension.Type
}

// PhotoAlbum assembles site photos into a handover document, optionally
// book-ended with static cover and closing pages.
type PhotoAlbum struct {
	ClientName string
	Cover      *AlbumPhoto
	Closing    *AlbumPhoto
	Photos     []AlbumPhoto
}

// AlbumFilename derives the download name for a photo album.
func AlbumFilename(clientName string) string {
	name := sanitizeFilePart(clientName)
	if name == "" {
		name = "Client"
	}
	return fmt.Sprintf("%s_SitePhotos.pdf", name)
}

// GeneratePhotoAlbumPDF renders the album one photo per page. Every image's
// bytes are validated before its page is composed, in order; a bad or missing
// image aborts the whole document rather than emitting a partial file.
func GeneratePhotoAlbumPDF(album PhotoAlbum) ([]byte, error) {
	if len(album.Photos) == 0 && album.Cover == nil && album.Closing == nil {
		return nil, fmt.Errorf("album has no photos")
	}

	c := NewComposer(nil)

	if album.Cover != nil {
		if err := addFullPagePhoto(c, *album.Cover); err != nil {
			return nil, fmt.Errorf("cover page: %w", err)
		}
	}

	for i, photo := range album.Photos {
		if err := addCaptionedPhoto(c, photo, album.ClientName); err != nil {
			return nil, fmt.Errorf("photo %d: %w", i+1, err)
		}
	}

	if album.Closing != nil {
		if err := addFullPagePhoto(c, *album.Closing); err != nil {
			return nil, fmt.Errorf("closing page: %w", err)
		}
	}

	return RenderPDF(c.Finalize())
}

func addFullPagePhoto(c *Composer, photo AlbumPhoto) error {
	if err := checkPhoto(photo); err != nil {
		return err
	}
	return c.Add(NewBlock().Image(photo.Data, photo.Ext, 260))
}

func addCaptionedPhoto(c *Composer, photo AlbumPhoto, clientName string) error {
	if err := checkPhoto(photo); err != nil {
		return err
	}
	b := NewBlock().
		Text(clientName, true).
		Spacer(2).
		Image(photo.Data, photo.Ext, 230)
	if photo.Caption != "" {
		b.Spacer(2).Text(photo.Caption, false)
	}
	return c.Add(b)
}

// checkPhoto confirms the image bytes are fully resident and of a supported
// type before the page referencing them is composed.
func checkPhoto(photo AlbumPhoto) error {
	if len(photo.Data) == 0 {
		return fmt.Errorf("image not loaded")
	}
	sniffed, err := SniffImageType(photo.Data)
	if err != nil {
		return err
	}
	if photo.Ext != "" && photo.Ext != sniffed {
		return fmt.Errorf("image bytes are %s but tagged %s", sniffed, photo.Ext)
	}
	return nil
}
