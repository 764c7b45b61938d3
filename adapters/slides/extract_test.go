package slides

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
)

const slideXMLHeader = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"` +
	` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`

func slideXML(shapes ...string) string {
	var b strings.Builder
	b.WriteString(slideXMLHeader)
	b.WriteString("<p:cSld><p:spTree>")
	for _, s := range shapes {
		b.WriteString(s)
	}
	b.WriteString("</p:spTree></p:cSld></p:sld>")
	return b.String()
}

func textShape(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString("<p:sp><p:txBody>")
	for _, p := range paragraphs {
		fmt.Fprintf(&b, "<a:p><a:r><a:t>%s</a:t></a:r></a:p>", p)
	}
	b.WriteString("</p:txBody></p:sp>")
	return b.String()
}

func deckBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating archive entry: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing archive entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

func TestReadDeck_NoSlides(t *testing.T) {
	data := deckBytes(t, map[string]string{
		"docProps/app.xml": "<Properties/>",
	})
	if _, err := ReadDeck(data); err == nil {
		t.Fatal("expected error for archive without slides")
	}
}

func TestReadDeck_NotAnArchive(t *testing.T) {
	if _, err := ReadDeck([]byte("plain text")); err == nil {
		t.Fatal("expected error for non-zip data")
	}
}

func TestReadDeck_NumericSlideOrder(t *testing.T) {
	data := deckBytes(t, map[string]string{
		"ppt/slides/slide10.xml": slideXML(textShape("Tenth")),
		"ppt/slides/slide2.xml":  slideXML(textShape("Second")),
		"ppt/slides/slide1.xml":  slideXML(textShape("First")),
	})

	slides, err := ReadDeck(data)
	if err != nil {
		t.Fatalf("ReadDeck: %v", err)
	}
	if len(slides) != 3 {
		t.Fatalf("slides = %d, want 3", len(slides))
	}

	wantTitles := []string{"First", "Second", "Tenth"}
	for i, s := range slides {
		if s.Number != i+1 {
			t.Errorf("slide[%d].Number = %d, want %d", i, s.Number, i+1)
		}
		if s.Title != wantTitles[i] {
			t.Errorf("slide[%d].Title = %q, want %q", i, s.Title, wantTitles[i])
		}
	}
}

func TestReadDeck_TitleAndContent(t *testing.T) {
	long := strings.Repeat("x", 150)
	data := deckBytes(t, map[string]string{
		"ppt/slides/slide1.xml": slideXML(
			textShape(long),
			textShape("Short Title"),
			textShape("Body paragraph"),
		),
	})

	slides, err := ReadDeck(data)
	if err != nil {
		t.Fatalf("ReadDeck: %v", err)
	}
	s := slides[0]

	// The long first block cannot be the title; the next short one is
	if s.Title != "Short Title" {
		t.Errorf("title = %q, want Short Title", s.Title)
	}
	if len(s.Content) != 2 || s.Content[0] != long || s.Content[1] != "Body paragraph" {
		t.Errorf("content = %v", s.Content)
	}
}

func TestReadDeck_BulletDetection(t *testing.T) {
	data := deckBytes(t, map[string]string{
		"ppt/slides/slide1.xml": slideXML(
			textShape("Agenda"),
			textShape("• first item", "• second item", "• third item"),
		),
	})

	slides, err := ReadDeck(data)
	if err != nil {
		t.Fatalf("ReadDeck: %v", err)
	}
	s := slides[0]

	want := []string{"• first item", "• second item", "• third item"}
	if len(s.BulletPoints) != len(want) {
		t.Fatalf("bullets = %v, want %v", s.BulletPoints, want)
	}
	for i := range want {
		if s.BulletPoints[i] != want[i] {
			t.Errorf("bullet[%d] = %q, want %q", i, s.BulletPoints[i], want[i])
		}
	}
}

func TestReadDeck_ShapeCountIncludesNonText(t *testing.T) {
	data := deckBytes(t, map[string]string{
		"ppt/slides/slide1.xml": slideXML(
			textShape("Title"),
			`<p:pic><p:nvPicPr/></p:pic>`,
			`<p:graphicFrame/>`,
		),
	})

	slides, err := ReadDeck(data)
	if err != nil {
		t.Fatalf("ReadDeck: %v", err)
	}
	if slides[0].ShapeCount != 3 {
		t.Errorf("shape count = %d, want 3", slides[0].ShapeCount)
	}
}

func TestReadDeck_MultiRunParagraph(t *testing.T) {
	data := deckBytes(t, map[string]string{
		"ppt/slides/slide1.xml": slideXML(
			`<p:sp><p:txBody><a:p><a:r><a:t>Hello </a:t></a:r><a:r><a:t>World</a:t></a:r></a:p></p:txBody></p:sp>`,
		),
	})

	slides, err := ReadDeck(data)
	if err != nil {
		t.Fatalf("ReadDeck: %v", err)
	}
	if slides[0].Title != "Hello World" {
		t.Errorf("title = %q, want split runs joined", slides[0].Title)
	}
}

func TestReadDeck_TextLength(t *testing.T) {
	data := deckBytes(t, map[string]string{
		"ppt/slides/slide1.xml": slideXML(
			textShape("Title"),
			textShape("Body"),
		),
	})

	slides, err := ReadDeck(data)
	if err != nil {
		t.Fatalf("ReadDeck: %v", err)
	}
	// "Title Body"
	if slides[0].TextLength != 10 {
		t.Errorf("text length = %d, want 10", slides[0].TextLength)
	}
}
