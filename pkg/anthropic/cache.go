package anthropic

// CachedSystemBlocks wraps a long, stable system prompt (such as the
// investment framework) in a single block with a 1-hour cache breakpoint so
// consecutive runs read it from the prompt cache. Blank text yields nil.
func CachedSystemBlocks(text string) []SystemBlock {
	if text == "" {
		return nil
	}
	return []SystemBlock{{
		Text:         text,
		CacheControl: &CacheControl{TTL: "1h"},
	}}
}
