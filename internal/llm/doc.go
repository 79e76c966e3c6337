// Package llm provides the external advice model clients. It supports Anthropic
// and OpenAI-compatible providers behind a single Client interface, with rate
// limiting and retry applied by NewClient.
package llm
