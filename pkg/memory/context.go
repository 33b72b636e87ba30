package memory

// ContextAssembler turns a ranked retrieval result set into the ordered
// context list a downstream generator consumes. It is pure and performs
// no I/O, which keeps "what goes into the prompt" testable apart from
// "how results are ranked".
type ContextAssembler struct{}

// NewContextAssembler creates a context assembler.
func NewContextAssembler() *ContextAssembler {
	return &ContextAssembler{}
}

// Assemble maps results to context items, preserving the input order.
func (a *ContextAssembler) Assemble(results []RetrievalResult) []ContextItem {
	items := make([]ContextItem, 0, len(results))
	for _, r := range results {
		if r.Record == nil {
			continue
		}
		items = append(items, ContextItem{
			Text:      r.Record.RawText,
			CreatedAt: r.Record.CreatedAt,
		})
	}
	return items
}
