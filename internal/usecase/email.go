package usecase

import (
	"bytes"
	"embed"
	"html/template"
	"time"
)

type Email struct {
	To          []string
	From        string
	CC          []string
	BCC         []string
	Subject     string
	Body        string
	Attachments []EmailAttachment
}

type EmailAttachment struct {
	Name        string
	ContentType string
	Content     []byte
}

type ExportEmailData struct {
	Title       string
	FileName    string
	DownloadURL string
	Count       int
	CurrentYear string
}

//go:embed templates/*
var templates embed.FS

var exportEmailTmpl = template.Must(template.ParseFS(templates, "templates/export_ready.html"))

func buildExportEmailBody(fileName, url string, count int) (string, error) {
	var buf bytes.Buffer
	err := exportEmailTmpl.Execute(&buf, ExportEmailData{
		Title:       "Your asset export is ready",
		FileName:    fileName,
		DownloadURL: url,
		Count:       count,
		CurrentYear: time.Now().Format("2006"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
