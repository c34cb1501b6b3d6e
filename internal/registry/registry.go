// Package registry holds the reference tables a scan is reconciled against:
// the known documents list, the document-tag registry and tag statuses.
package registry

import "strings"

// Unidentified is the status of tags absent from the status registry or
// listed there with a blank status.
const Unidentified = "Unidentified"

// BaseID returns the registry join key of a document id: the text before the
// first underscore.
func BaseID(documentID string) string {
	base, _, _ := strings.Cut(documentID, "_")
	return base
}

// KnownDocuments is the flat list of cell values from the documents table.
type KnownDocuments []string

// MentionsTag reports whether tag occurs as a substring of any known document
// entry. This is plain containment: a tag inside an unrelated document number
// counts as mentioned.
func (k KnownDocuments) MentionsTag(tag string) bool {
	for _, doc := range k {
		if strings.Contains(doc, tag) {
			return true
		}
	}
	return false
}

// TagAction is one registry entry of a document.
type TagAction struct {
	Tag    string
	Action string
}

// DocTag maps base document ids to their expected tags and actions. Tags are
// compared exactly; the loaders store them upper-cased. Both
// documents and tags iterate in first-insertion order; re-setting a pair
// replaces its action in place.
type DocTag struct {
	order []string
	docs  map[string]*docEntry
}

type docEntry struct {
	tags  []TagAction
	index map[string]int
}

// NewDocTag returns an empty registry.
func NewDocTag() *DocTag {
	return &DocTag{docs: make(map[string]*docEntry)}
}

// Set records action for (base, tag).
func (d *DocTag) Set(base, tag, action string) {
	if d.docs == nil {
		d.docs = make(map[string]*docEntry)
	}
	e, ok := d.docs[base]
	if !ok {
		e = &docEntry{index: make(map[string]int)}
		d.docs[base] = e
		d.order = append(d.order, base)
	}
	if i, ok := e.index[tag]; ok {
		e.tags[i].Action = action
		return
	}
	e.index[tag] = len(e.tags)
	e.tags = append(e.tags, TagAction{Tag: tag, Action: action})
}

// Action returns the action registered for (base, tag).
func (d *DocTag) Action(base, tag string) (string, bool) {
	if d == nil {
		return "", false
	}
	e, ok := d.docs[base]
	if !ok {
		return "", false
	}
	i, ok := e.index[tag]
	if !ok {
		return "", false
	}
	return e.tags[i].Action, true
}

// Documents returns the base ids in registry order.
func (d *DocTag) Documents() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.order...)
}

// Tags returns the entries of base in registry order.
func (d *DocTag) Tags(base string) []TagAction {
	if d == nil {
		return nil
	}
	e, ok := d.docs[base]
	if !ok {
		return nil
	}
	return append([]TagAction(nil), e.tags...)
}

// Len returns the number of documents.
func (d *DocTag) Len() int {
	if d == nil {
		return 0
	}
	return len(d.order)
}

// TagStatus maps tags to their workflow status.
type TagStatus struct {
	status map[string]string
}

// NewTagStatus returns an empty registry.
func NewTagStatus() *TagStatus {
	return &TagStatus{status: make(map[string]string)}
}

// Set records status for tag; a blank status is stored as Unidentified.
func (s *TagStatus) Set(tag, status string) {
	if s.status == nil {
		s.status = make(map[string]string)
	}
	if strings.TrimSpace(status) == "" {
		status = Unidentified
	}
	s.status[tag] = status
}

// Status returns the status of tag, Unidentified when absent.
func (s *TagStatus) Status(tag string) string {
	if s == nil {
		return Unidentified
	}
	if st, ok := s.status[tag]; ok {
		return st
	}
	return Unidentified
}

// Len returns the number of tags with a status.
func (s *TagStatus) Len() int {
	if s == nil {
		return 0
	}
	return len(s.status)
}

// Registries bundles the three reference tables. They are read-only once
// loaded and safe to share between concurrent folder runs.
type Registries struct {
	Known  KnownDocuments
	DocTag *DocTag
	Status *TagStatus
}

// Empty returns registries with nothing loaded.
func Empty() Registries {
	return Registries{DocTag: NewDocTag(), Status: NewTagStatus()}
}
