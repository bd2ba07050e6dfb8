package notion

import (
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

// Title builds a title property.
func Title(s string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Type:  notionapi.PropertyTypeTitle,
		Title: richText(s),
	}
}

// RichText builds a rich text property.
func RichText(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		Type:     notionapi.PropertyTypeRichText,
		RichText: richText(s),
	}
}

// Select builds a select property.
func Select(name string) notionapi.SelectProperty {
	return notionapi.SelectProperty{
		Type:   notionapi.PropertyTypeSelect,
		Select: notionapi.Option{Name: name},
	}
}

// Date builds a date property.
func Date(t time.Time) notionapi.DateProperty {
	d := notionapi.Date(t)
	return notionapi.DateProperty{
		Type: notionapi.PropertyTypeDate,
		Date: &notionapi.DateObject{Start: &d},
	}
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
	}
}

// PlainValue flattens a property read back from the API into a plain Go
// value: text for title, rich text and select, time.Time for dates. Other
// property types yield nil.
func PlainValue(p notionapi.Property) any {
	switch v := p.(type) {
	case *notionapi.TitleProperty:
		return PlainText(v.Title)
	case *notionapi.RichTextProperty:
		return PlainText(v.RichText)
	case *notionapi.SelectProperty:
		return v.Select.Name
	case *notionapi.StatusProperty:
		return v.Status.Name
	case *notionapi.DateProperty:
		if v.Date == nil || v.Date.Start == nil {
			return nil
		}
		return time.Time(*v.Date.Start)
	case *notionapi.NumberProperty:
		return v.Number
	case *notionapi.URLProperty:
		return v.URL
	}
	return nil
}

// PlainText concatenates the plain text of rich text fragments.
func PlainText(rt []notionapi.RichText) string {
	var b strings.Builder
	for _, r := range rt {
		if r.PlainText != "" {
			b.WriteString(r.PlainText)
		} else if r.Text != nil {
			b.WriteString(r.Text.Content)
		}
	}
	return b.String()
}
