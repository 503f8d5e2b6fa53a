package interview

// MappingEntry links a readable code back to its internal token and session.
type MappingEntry struct {
	InternalID string `json:"unique_id"`
	SessionKey string `json:"user_id"`
	TurnCount  int    `json:"message_count"`
}

// ExportMapping builds the research export: readable code to session linkage
// for every session that carries both identifier markers. Sessions created
// through the chat path without a formal start have no markers and are
// skipped.
func (c *Conductor) ExportMapping() map[string]MappingEntry {
	mapping := make(map[string]MappingEntry)
	for _, sess := range c.store.All() {
		internal, ok := InternalID(sess)
		if !ok {
			continue
		}
		readable, ok := ReadableID(sess)
		if !ok {
			continue
		}
		mapping[readable] = MappingEntry{
			InternalID: internal,
			SessionKey: sess.Key,
			TurnCount:  sess.TurnCount(),
		}
	}
	return mapping
}
