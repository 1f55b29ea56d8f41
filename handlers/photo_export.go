package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"

	"interiordesk/services"
)

// HandlePhotoAlbumPDF generates and downloads the site-photo album for a
// client. Photos are loaded from record storage one at a time, in sort
// order, and a single unreadable image aborts the whole document.
func HandlePhotoAlbumPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clientID := e.Request.PathValue("id")
		if clientID == "" {
			return e.String(http.StatusBadRequest, "Missing client ID")
		}

		client, err := app.FindRecordById("clients", clientID)
		if err != nil {
			return e.String(http.StatusNotFound, "Client not found")
		}

		photosCol, err := app.FindCollectionByNameOrId("site_photos")
		if err != nil {
			log.Printf("photo_export: %v", err)
			return e.String(http.StatusInternalServerError, "Photos unavailable")
		}

		records, err := app.FindRecordsByFilter(photosCol,
			"client = {:clientId}", "sort_order,created", 0, 0,
			map[string]any{"clientId": clientID})
		if err != nil {
			log.Printf("photo_export: query: %v", err)
			return e.String(http.StatusInternalServerError, "Photos unavailable")
		}
		if len(records) == 0 {
			return e.String(http.StatusNotFound, "Client has no site photos")
		}

		fsys, err := app.NewFilesystem()
		if err != nil {
			log.Printf("photo_export: filesystem: %v", err)
			return e.String(http.StatusInternalServerError, "Photos unavailable")
		}
		defer fsys.Close()

		album := services.PhotoAlbum{ClientName: client.GetString("name")}
		for _, r := range records {
			data, err := readRecordFile(fsys, r.BaseFilesPath()+"/"+r.GetString("image"))
			if err != nil {
				log.Printf("photo_export: read photo %s: %v", r.Id, err)
				return e.String(http.StatusInternalServerError, "Failed to load a site photo")
			}
			ext, err := services.SniffImageType(data)
			if err != nil {
				log.Printf("photo_export: photo %s: %v", r.Id, err)
				return e.String(http.StatusInternalServerError, "Failed to load a site photo")
			}
			album.Photos = append(album.Photos, services.AlbumPhoto{
				Caption: r.GetString("caption"),
				Data:    data,
				Ext:     ext,
			})
		}

		pdfBytes, err := services.GeneratePhotoAlbumPDF(album)
		if err != nil {
			log.Printf("photo_export: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := services.AlbumFilename(album.ClientName)

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// readRecordFile fully reads one stored file before the caller moves on to
// the next photo.
func readRecordFile(fsys *filesystem.System, key string) ([]byte, error) {
	r, err := fsys.GetReader(key)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
