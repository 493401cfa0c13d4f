// Copyright 2025 Pattreeya Tanisaro
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package retrieval exposes the fixed menu of read-only CV queries over the
// relational and vector stores. Each query issues exactly one parameterized
// statement or one embed-and-search round trip and normalizes rows into
// column-keyed maps. Backend errors never escape as raw driver errors; they
// are logged and folded into the Result envelope.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ptee/pattreeya-voice-agent/pkg/databases"
	"github.com/ptee/pattreeya-voice-agent/pkg/embedders"
)

// DefaultTopK is the semantic search result count when the caller does not
// supply one.
const DefaultTopK = 5

const fallbackCVID = "default-cv-id"

// Provider issues the CV queries. It is safe for concurrent use; every
// invocation is an independent read.
type Provider struct {
	store      databases.SQLStore
	vector     databases.VectorSearcher
	embedder   embedders.Embedder
	collection string

	mu   sync.Mutex
	cvID string
}

// NewProvider wires the retrieval queries to their backing stores.
func NewProvider(store databases.SQLStore, vector databases.VectorSearcher, embedder embedders.Embedder, collection string) *Provider {
	return &Provider{
		store:      store,
		vector:     vector,
		embedder:   embedder,
		collection: collection,
	}
}

// cvIDFor returns the CV identifier scoping every relational query. It is
// resolved once from the skills table and cached for the process lifetime.
func (p *Provider) cvIDFor(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cvID != "" {
		return p.cvID
	}

	rows, err := p.store.Query(ctx, "SELECT DISTINCT cv_id FROM skills LIMIT 1")
	if err != nil || len(rows) == 0 {
		slog.Warn("Could not resolve CV ID, using default", "error", err)
		return fallbackCVID
	}

	p.cvID = fmt.Sprintf("%v", rows[0]["cv_id"])
	return p.cvID
}

// Summary returns the single cv_summary row: name, role, totals and domains.
func (p *Provider) Summary(ctx context.Context) Result {
	const tool = "get_cv_summary"

	rows, err := p.store.Query(ctx, `
		SELECT name, crole AS current_role, total_years_experience,
		       total_jobs, total_degrees, total_publications,
		       domains, all_skills
		FROM cv_summary
		LIMIT 1`)
	if err != nil {
		slog.Error("Retrieval query failed", "tool", tool, "error", err)
		return failure(tool, err)
	}

	return success(tool, rows, "cv summary")
}

// CompanyExperience finds all jobs at a company (case-insensitive substring).
func (p *Provider) CompanyExperience(ctx context.Context, companyName string) Result {
	const tool = "search_company_experience"

	rows, err := p.store.Query(ctx, `
		SELECT company, role, location, start_date, end_date, is_current,
		       technologies, skills, domain, seniority, team_size
		FROM work_experience
		WHERE cv_id = $1 AND company ILIKE $2
		ORDER BY start_date DESC`,
		p.cvIDFor(ctx), "%"+companyName+"%")
	if err != nil {
		slog.Error("Retrieval query failed", "tool", tool, "company", companyName, "error", err)
		return failure(tool, err)
	}

	slog.Info("Company experience lookup", "company", companyName, "jobs", len(rows))
	return success(tool, rows, "company: "+companyName)
}

// TechnologyExperience finds all jobs whose technology list contains the
// exact technology name.
func (p *Provider) TechnologyExperience(ctx context.Context, technology string) Result {
	const tool = "search_technology_experience"

	rows, err := p.store.Query(ctx, `
		SELECT company, role, start_date, end_date, technologies, domain
		FROM work_experience
		WHERE cv_id = $1 AND $2 = ANY(technologies)
		ORDER BY start_date DESC`,
		p.cvIDFor(ctx), technology)
	if err != nil {
		slog.Error("Retrieval query failed", "tool", tool, "technology", technology, "error", err)
		return failure(tool, err)
	}

	slog.Info("Technology experience lookup", "technology", technology, "jobs", len(rows))
	return success(tool, rows, "technology: "+technology)
}

// WorkByDate finds work experience whose dates fall inside [startYear, endYear].
func (p *Provider) WorkByDate(ctx context.Context, startYear, endYear int) Result {
	const tool = "search_work_by_date"

	rows, err := p.store.Query(ctx, `
		SELECT company, role, start_date, end_date, technologies, keywords
		FROM work_experience
		WHERE cv_id = $1
		  AND start_date >= $2::date
		  AND (end_date <= $3::date OR end_date IS NULL)
		ORDER BY start_date DESC`,
		p.cvIDFor(ctx), fmt.Sprintf("%d-01-01", startYear), fmt.Sprintf("%d-12-31", endYear))
	if err != nil {
		slog.Error("Retrieval query failed", "tool", tool, "start_year", startYear, "end_year", endYear, "error", err)
		return failure(tool, err)
	}

	return success(tool, rows, fmt.Sprintf("date range: %d-%d", startYear, endYear))
}

// Education finds education records, optionally filtered by institution or
// degree (institution wins when both are supplied).
func (p *Provider) Education(ctx context.Context, institution, degree string) Result {
	const tool = "search_education"

	var (
		rows   []map[string]interface{}
		err    error
		detail string
	)

	switch {
	case institution != "":
		rows, err = p.store.Query(ctx, `
			SELECT institution, degree, field, specialization, graduation_date, thesis, publications
			FROM education
			WHERE cv_id = $1 AND institution ILIKE $2`,
			p.cvIDFor(ctx), "%"+institution+"%")
		detail = "institution: " + institution
	case degree != "":
		rows, err = p.store.Query(ctx, `
			SELECT institution, degree, field, specialization, graduation_date, thesis
			FROM education
			WHERE cv_id = $1 AND degree ILIKE $2`,
			p.cvIDFor(ctx), "%"+degree+"%")
		detail = "degree: " + degree
	default:
		rows, err = p.store.Query(ctx, `
			SELECT institution, degree, field, specialization, graduation_date, thesis
			FROM education
			WHERE cv_id = $1`,
			p.cvIDFor(ctx))
		detail = "all education"
	}

	if err != nil {
		slog.Error("Retrieval query failed", "tool", tool, "institution", institution, "degree", degree, "error", err)
		return failure(tool, err)
	}

	return success(tool, rows, detail)
}

// Publications lists publications, optionally restricted to a year
// (year <= 0 means all).
func (p *Provider) Publications(ctx context.Context, year int) Result {
	const tool = "search_publications"

	var (
		rows   []map[string]interface{}
		err    error
		detail string
	)

	if year > 0 {
		rows, err = p.store.Query(ctx, `
			SELECT title, year, conference_name, doi, keywords, content_text
			FROM publications
			WHERE cv_id = $1 AND year = $2
			ORDER BY year DESC`,
			p.cvIDFor(ctx), year)
		detail = fmt.Sprintf("year: %d", year)
	} else {
		rows, err = p.store.Query(ctx, `
			SELECT title, year, conference_name, doi, keywords, content_text
			FROM publications
			WHERE cv_id = $1
			ORDER BY year DESC`,
			p.cvIDFor(ctx))
		detail = "all publications"
	}

	if err != nil {
		slog.Error("Retrieval query failed", "tool", tool, "year", year, "error", err)
		return failure(tool, err)
	}

	return success(tool, rows, detail)
}

// Skills lists skill names in a category.
func (p *Provider) Skills(ctx context.Context, category string) Result {
	const tool = "search_skills"

	rows, err := p.store.Query(ctx, `
		SELECT skill_name
		FROM skills
		WHERE cv_id = $1 AND skill_category = $2
		ORDER BY skill_name`,
		p.cvIDFor(ctx), category)
	if err != nil {
		slog.Error("Retrieval query failed", "tool", tool, "category", category, "error", err)
		return failure(tool, err)
	}

	return success(tool, rows, "category: "+category)
}

// AwardsCertifications lists awards and certifications, optionally filtered
// by a title/organization substring.
func (p *Provider) AwardsCertifications(ctx context.Context, awardType string) Result {
	const tool = "search_awards_certifications"

	var (
		rows   []map[string]interface{}
		err    error
		detail string
	)

	if awardType != "" {
		pattern := "%" + awardType + "%"
		rows, err = p.store.Query(ctx, `
			SELECT title, issuing_organization, organization, issue_date, keywords
			FROM awards_certifications
			WHERE cv_id = $1 AND (issuing_organization ILIKE $2 OR organization ILIKE $3 OR title ILIKE $4)
			ORDER BY issue_date DESC`,
			p.cvIDFor(ctx), pattern, pattern, pattern)
		detail = "type: " + awardType
	} else {
		rows, err = p.store.Query(ctx, `
			SELECT title, issuing_organization, organization, issue_date, keywords
			FROM awards_certifications
			WHERE cv_id = $1
			ORDER BY issue_date DESC`,
			p.cvIDFor(ctx))
		detail = "all awards and certifications"
	}

	if err != nil {
		slog.Error("Retrieval query failed", "tool", tool, "award_type", awardType, "error", err)
		return failure(tool, err)
	}

	return success(tool, rows, detail)
}

// SemanticSearch embeds the query text and returns the topK nearest CV
// chunks, optionally restricted to one section ("work experience",
// "education", "publication", "projects"). topK <= 0 uses DefaultTopK.
func (p *Provider) SemanticSearch(ctx context.Context, query, section string, topK int) Result {
	const tool = "semantic_search"

	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := p.embedder.Embed(ctx, query)
	if err != nil {
		slog.Error("Query embedding failed", "tool", tool, "query", query, "error", err)
		return failure(tool, err)
	}

	var filter map[string]string
	if section != "" && section != "all" {
		filter = map[string]string{"section": section}
	}

	matches, err := p.vector.Search(ctx, p.collection, vector, topK, filter)
	if err != nil {
		slog.Error("Vector search failed", "tool", tool, "query", query, "section", section, "error", err)
		return failure(tool, err)
	}

	rows := make([]map[string]interface{}, 0, len(matches))
	for _, match := range matches {
		rows = append(rows, formatMatch(match))
	}

	slog.Info("Semantic search complete", "query", query, "section", section, "matches", len(rows))
	result := success(tool, rows, "query: "+query)
	return result
}

// formatMatch flattens a vector match into the row shape relational queries
// use, keeping the core identifiers plus section-specific payload fields.
func formatMatch(match databases.SearchResult) map[string]interface{} {
	row := map[string]interface{}{
		"chunk_id":         match.Metadata["chunk_id"],
		"cv_id":            match.Metadata["cv_id"],
		"section":          match.Metadata["section"],
		"similarity_score": match.Score,
	}

	section, _ := match.Metadata["section"].(string)

	copyFields := func(fields ...string) {
		for _, field := range fields {
			if value, exists := match.Metadata[field]; exists && value != nil {
				row[field] = value
			}
		}
	}

	switch section {
	case "work experience":
		copyFields("company", "role", "domain", "responsibility")
	case "education":
		copyFields("institution", "degree", "thesis", "graduation_date")
	case "publication":
		copyFields("title")
	case "projects":
		copyFields("project_name", "responsibility", "technologies")
	}

	copyFields("technologies", "skills")
	if match.Content != "" {
		row["content"] = match.Content
	}
	return row
}
