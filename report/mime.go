package report

import (
	"log"
	"mime"
)

func init() {
	ensureMimeType(".csv", "text/csv; charset=utf-8")
	ensureMimeType(".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ensureMimeType(".pdf", "application/pdf")
}

func ensureMimeType(ext, typ string) {
	if mime.TypeByExtension(ext) != "" {
		return
	}
	if err := mime.AddExtensionType(ext, typ); err != nil {
		log.Printf("report: failed to register MIME type for %s: %v", ext, err)
	}
}

// ContentType returns the response media type for f.
func ContentType(f Format) string {
	if f == FormatJSON {
		return "application/json"
	}
	if typ := mime.TypeByExtension(f.Extension()); typ != "" {
		return typ
	}
	return "application/octet-stream"
}
