package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for bookmark documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search on bookmark names with English stemming
//  2. Tokenized URL matching without stemming
//  3. Exact keyword matching for tab, group, and host filters
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Name - primary search target
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// URL - simple analyzer splits on non-letters, no stemming
	urlFieldMapping := bleve.NewTextFieldMapping()
	urlFieldMapping.Analyzer = simple.Name
	urlFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("url", urlFieldMapping)

	// --- Keyword fields (exact match) ---

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	hostFieldMapping := bleve.NewTextFieldMapping()
	hostFieldMapping.Analyzer = keyword.Name
	hostFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("host", hostFieldMapping)

	tabIDsFieldMapping := bleve.NewTextFieldMapping()
	tabIDsFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("tab_ids", tabIDsFieldMapping)

	groupIDsFieldMapping := bleve.NewTextFieldMapping()
	groupIDsFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("group_ids", groupIDsFieldMapping)

	// --- Numeric fields (sorting by recency) ---

	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
