package entries

import "github.com/flowsilk/flowpack/header"

// ProbeName names the probe the file's records were classified from.
type ProbeName struct {
	Name string
}

func (e *ProbeName) Type() header.EntryType { return header.ENTRY_PROBENAME }

func (e *ProbeName) Marshal(dst []byte) []byte {
	return putString(dst, e.Name)
}

func (e *ProbeName) Unmarshal(src []byte) error {
	s, _, err := getString(src)
	if err != nil {
		return err
	}
	e.Name = s
	return nil
}

func (e *ProbeName) ToJSON(dst []byte) []byte {
	dst = append(dst, '"')
	dst = append(dst, e.Name...)
	return append(dst, '"')
}
