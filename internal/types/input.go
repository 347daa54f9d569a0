package types

import (
	"path/filepath"
	"strings"
)

// FileType is the kind of file handed to the pipeline.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeText FileType = "txt"
)

// PDFContentMarker stands in for Content when the real payload is FileData.
const PDFContentMarker = "[PDF binary content attached]"

// PDFMIMEType is the attachment type sent to the model for PDF input.
const PDFMIMEType = "application/pdf"

// FileInput is produced by the file-parsing collaborator.
type FileInput struct {
	Content  string   `json:"content"`
	FileType FileType `json:"fileType"`
	FileName string   `json:"fileName"`
	FileSize int64    `json:"fileSize"`
	FileData []byte   `json:"fileData,omitempty"`

	// FallbackText is best-effort plain text of a PDF for the regex path.
	FallbackText string `json:"-"`
}

// IsPDF reports whether the input carries PDF bytes.
func (f FileInput) IsPDF() bool {
	return f.FileType == FileTypePDF
}

// IsEmpty reports whether there is nothing to parse.
func (f FileInput) IsEmpty() bool {
	if f.IsPDF() {
		return len(f.FileData) == 0
	}
	return strings.TrimSpace(f.Content) == ""
}

// PlainText returns the text the regex parser should work on.
func (f FileInput) PlainText() string {
	if f.IsPDF() {
		if f.FallbackText != "" {
			return f.FallbackText
		}
		return ""
	}
	return f.Content
}

// TextInput builds a FileInput for literal text.
func TextInput(name, content string) FileInput {
	return FileInput{
		Content:  content,
		FileType: FileTypeText,
		FileName: name,
		FileSize: int64(len(content)),
	}
}

// PDFInput builds a FileInput for PDF bytes.
func PDFInput(name string, data []byte) FileInput {
	return FileInput{
		Content:  PDFContentMarker,
		FileType: FileTypePDF,
		FileName: name,
		FileSize: int64(len(data)),
		FileData: data,
	}
}

// DetectFileType maps a file name to a FileType by extension.
func DetectFileType(name string) FileType {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return FileTypePDF
	}
	return FileTypeText
}
