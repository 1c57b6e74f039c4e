package handle

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Melonns/PlantifyBE/api/internal/identify"
	"github.com/Melonns/PlantifyBE/api/internal/scan"
)

// ScanPlant accepts a single-file multipart upload in the "image" field and
// runs the identification pipeline. Enrichment failures never change the
// response status; they only show up as sentinel values inside "care".
func (h *Handle) ScanPlant(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "Tidak ada file gambar yang diupload", nil)
		return
	}

	f, err := file.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "Gagal membaca file gambar", err)
		return
	}
	defer f.Close()
	image, err := io.ReadAll(f)
	if err != nil {
		fail(c, http.StatusBadRequest, "Gagal membaca file gambar", err)
		return
	}

	req := scan.Request{
		Image:     image,
		MediaType: file.Header.Get("Content-Type"),
		Filename:  file.Filename,
	}

	result, err := h.Scanner.Scan(c.Request.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, scan.ErrMissingImage):
		fail(c, http.StatusBadRequest, "Tidak ada file gambar yang diupload", nil)
		return
	case errors.Is(err, identify.ErrNoMatch):
		fail(c, http.StatusNotFound, "Tanaman tidak ditemukan oleh PlantNet", nil)
		return
	default:
		fail(c, http.StatusInternalServerError, "Gagal memproses gambar", err)
		return
	}

	if !result.IsPlant {
		ok(c, http.StatusOK, "Tanaman tidak dapat dikenali", result)
		return
	}
	ok(c, http.StatusOK, "Scan berhasil", result)
}
