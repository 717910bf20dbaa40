package templates

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"

	"github.com/shorty-cgi/shorty/api/models"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

//go:embed *.html
var files embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"qrcode": qrDataURI,
}).ParseFS(files, "*.html"))

// HTTPError is the data of http_error.html.
type HTTPError struct {
	StatusCode int
	Details    string
}

// Reason is the status text, e.g. "Not Found".
func (e HTTPError) Reason() string {
	return http.StatusText(e.StatusCode)
}

// ShortURL is the data of short_url.html. PageURL is the absolute url the
// page was requested at, it is what the QR code encodes.
type ShortURL struct {
	PageURL  string
	ShortURL *models.ShortURL
}

// Quotation is the data of quotation.html.
type Quotation struct {
	Quote string
}

func RenderHTTPError(data HTTPError) ([]byte, error) {
	return render("http_error.html", data)
}

func RenderShortURL(data ShortURL) ([]byte, error) {
	return render("short_url.html", data)
}

func RenderQuotation(data Quotation) ([]byte, error) {
	return render("quotation.html", data)
}

func render(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func qrDataURI(content string) (template.URL, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
