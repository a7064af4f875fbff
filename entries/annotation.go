package entries

import "github.com/flowsilk/flowpack/header"

// Annotation is a free-text note attached to the file at pack time.
type Annotation struct {
	Note string
}

func (e *Annotation) Type() header.EntryType { return header.ENTRY_ANNOTATION }

func (e *Annotation) Marshal(dst []byte) []byte {
	return putString(dst, e.Note)
}

func (e *Annotation) Unmarshal(src []byte) error {
	s, _, err := getString(src)
	if err != nil {
		return err
	}
	e.Note = s
	return nil
}

func (e *Annotation) ToJSON(dst []byte) []byte {
	dst = append(dst, '"')
	dst = append(dst, e.Note...)
	return append(dst, '"')
}
