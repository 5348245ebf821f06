package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	documentPart  = "word/document.xml"
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// Extractor joins the document's body paragraphs with single spaces.
// Paragraphs nested in tables, text boxes or content controls are not part of
// the body flow and are skipped.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()

		paragraphs, err := Paragraphs(rc)
		if err != nil {
			return "", err
		}
		return strings.Join(paragraphs, " "), nil
	}
	return "", fmt.Errorf("docx archive has no %s", documentPart)
}

// Paragraphs returns the text of every body-level w:p element in order.
func Paragraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		out     []string
		current strings.Builder
		inPara  bool
		inRun   bool
		inText  bool
		nested  int
	)
	// A text box sits inside a run; the run resumes once the box closes.
	inBodyRun := func() bool { return inRun && nested == 0 }

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "tbl", "txbxContent", "sdt":
				nested++
			case "p":
				if nested == 0 {
					inPara = true
					current.Reset()
				}
			case "r":
				if nested == 0 {
					inRun = inPara
				}
			case "t":
				inText = inBodyRun()
			case "tab":
				if inBodyRun() {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inBodyRun() {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "tbl", "txbxContent", "sdt":
				if nested > 0 {
					nested--
				}
			case "p":
				if inPara && nested == 0 {
					out = append(out, current.String())
					inPara = false
				}
			case "r":
				if nested == 0 {
					inRun = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return out, nil
}
