// Package docmcp crawls documentation sites through an external crawling
// service and rewrites every crawled page into a standardized Markdown
// document through an LLM completion service.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., firecrawl/, gemini/, prometheus/).
package docmcp
