package slides

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"

	apperrors "tablekit/internal/errors"
)

var slidePathPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// The slide XML is walked as a token stream rather than unmarshalled into
// structs. Shapes (p:sp, p:pic, p:graphicFrame, p:cxnSp, p:grpSp) are
// counted directly; text runs (a:t) inside a shape are joined per
// paragraph (a:p) so multi-line placeholders keep their line breaks.
const titleLengthLimit = 100

// OpenDeck reads a .pptx file from disk and extracts its slides
func OpenDeck(filePath string) ([]Slide, error) {
	r, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open presentation archive")
	}
	defer r.Close()

	return extractSlides(&r.Reader)
}

// ReadDeck extracts slides from an in-memory .pptx archive
func ReadDeck(data []byte) ([]Slide, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open presentation archive")
	}

	return extractSlides(r)
}

func extractSlides(r *zip.Reader) ([]Slide, error) {
	type slideFile struct {
		number int
		file   *zip.File
	}

	var files []slideFile
	for _, f := range r.File {
		m := slidePathPattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		files = append(files, slideFile{number: n, file: f})
	}
	if len(files) == 0 {
		return nil, apperrors.UnsupportedFile("no slides found in presentation")
	}

	sort.Slice(files, func(i, j int) bool { return files[i].number < files[j].number })

	slides := make([]Slide, 0, len(files))
	for i, sf := range files {
		rc, err := sf.file.Open()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to read slide")
		}
		texts, shapeCount, err := parseSlideXML(rc)
		rc.Close()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to parse slide markup")
		}

		slides = append(slides, buildSlide(i+1, texts, shapeCount))
	}

	log.Printf("[Slides] Extracted %d slides from presentation", len(slides))
	return slides, nil
}

// parseSlideXML returns the text of each shape on the slide and the shape count
func parseSlideXML(r io.Reader) ([]string, int, error) {
	dec := xml.NewDecoder(r)

	var (
		texts      []string
		shapeCount int
		inTree     bool
		inShape    bool
		shapeDepth int
		paragraphs []string
		current    strings.Builder
		inRun      bool
	)

	flushParagraph := func() {
		paragraphs = append(paragraphs, current.String())
		current.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if name == "spTree" {
				inTree = true
				continue
			}
			if inTree && !inShape && isShapeElement(name) {
				shapeCount++
				inShape = true
				shapeDepth = 1
				paragraphs = nil
				continue
			}
			if inShape {
				shapeDepth++
				switch name {
				case "p":
					current.Reset()
				case "t":
					inRun = true
				}
			}
		case xml.CharData:
			if inRun {
				current.Write(t)
			}
		case xml.EndElement:
			name := t.Name.Local
			if name == "spTree" {
				inTree = false
				continue
			}
			if inShape {
				switch name {
				case "t":
					inRun = false
				case "p":
					flushParagraph()
				}
				shapeDepth--
				if shapeDepth == 0 {
					inShape = false
					if text := strings.TrimSpace(strings.Join(paragraphs, "\n")); text != "" {
						texts = append(texts, text)
					}
				}
			}
		}
	}

	return texts, shapeCount, nil
}

func isShapeElement(name string) bool {
	switch name {
	case "sp", "pic", "graphicFrame", "cxnSp", "grpSp":
		return true
	}
	return false
}

// buildSlide applies the title and bullet heuristics to the extracted shape texts
func buildSlide(number int, texts []string, shapeCount int) Slide {
	slide := Slide{
		Number:       number,
		Content:      []string{},
		BulletPoints: []string{},
		ShapeCount:   shapeCount,
	}

	for _, text := range texts {
		// First short text block is treated as the title
		if slide.Title == "" && len(text) < titleLengthLimit {
			slide.Title = text
		} else {
			slide.Content = append(slide.Content, text)
		}

		if hasBullets(text) {
			for _, line := range strings.Split(text, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					slide.BulletPoints = append(slide.BulletPoints, line)
				}
			}
		}
	}

	allText := strings.TrimSpace(slide.Title + " " + strings.Join(slide.Content, " "))
	slide.TextLength = len(allText)

	return slide
}

func hasBullets(text string) bool {
	if strings.HasPrefix(text, "•") || strings.HasPrefix(text, "-") || strings.HasPrefix(text, "*") {
		return true
	}
	return strings.Contains(text, "\n•") || strings.Contains(text, "\n-")
}
