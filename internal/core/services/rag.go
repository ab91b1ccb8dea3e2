package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harvest-labs/agrolens-cli/internal/core/domain"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driven"
	"github.com/harvest-labs/agrolens-cli/internal/core/ports/driving"
	"github.com/harvest-labs/agrolens-cli/internal/logger"
)

// Ensure RAGService implements the interfaces.
var (
	_ driving.QueryService    = (*RAGService)(nil)
	_ driven.PromptStoreAware = (*RAGService)(nil)
)

// DefaultTopK is the number of chunks retrieved per conversational
// query.
const DefaultTopK = 5

// insufficientKnowledgeAnswer is the fixed response for a conversational
// query against an empty or unhelpful index. The language model is never
// called with empty context.
const insufficientKnowledgeAnswer = "I don't have enough information in " +
	"the knowledge base to answer that. Upload relevant documents and try again."

// noStructuredDataAnswer is the fixed response for a computational query
// when no ready structured dataset can be loaded.
const noStructuredDataAnswer = "I couldn't find any structured datasets " +
	"to compute over. Upload a CSV dataset and wait for it to finish indexing."

// defaultRAGPrompt is the fallback answer prompt when no PromptStore is
// configured. Placeholders: language instruction, context block,
// question.
const defaultRAGPrompt = `You are an assistant answering questions about the user's uploaded documents.%s

Use ONLY the context below to answer.

Context:
%s

Question: %s

Instructions:
- Base the answer strictly on the context.
- If the context does not contain the answer, say that plainly.
- Be concise and factual. Do not invent numbers.

Answer:`

// answerLabelPrefixes are labels some models echo back at the start of a
// completion; they are stripped from the final answer.
var answerLabelPrefixes = []string{"Answer:", "Response:", "A:"}

// RAGService is the query orchestrator. It classifies each request and
// routes it to the computation engine or through retrieval and the
// language model, always producing a structured answer.
type RAGService struct {
	classifier   *Classifier
	engine       *ComputationEngine
	datasetStore driven.DatasetStore
	chunkStore   driven.ChunkStore
	vectorIndex  driven.VectorIndex
	embedding    driven.EmbeddingService
	llm          driven.LLMService
	rowReader    driven.RowReader
	prompts      driven.PromptStore
	topK         int
}

// NewRAGService creates the query orchestrator. The embedding, llm and
// rowReader collaborators may be nil; affected branches degrade to
// explanatory answers.
func NewRAGService(
	classifier *Classifier,
	engine *ComputationEngine,
	datasetStore driven.DatasetStore,
	chunkStore driven.ChunkStore,
	vectorIndex driven.VectorIndex,
	embedding driven.EmbeddingService,
	llm driven.LLMService,
	rowReader driven.RowReader,
) *RAGService {
	return &RAGService{
		classifier:   classifier,
		engine:       engine,
		datasetStore: datasetStore,
		chunkStore:   chunkStore,
		vectorIndex:  vectorIndex,
		embedding:    embedding,
		llm:          llm,
		rowReader:    rowReader,
		topK:         DefaultTopK,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (s *RAGService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetTopK overrides the retrieval depth.
func (s *RAGService) SetTopK(k int) {
	if k > 0 {
		s.topK = k
	}
}

// Answer routes the request and produces an answer. The contract is
// total: every failure becomes a user-facing explanatory message.
func (s *RAGService) Answer(ctx context.Context, req domain.QueryRequest) domain.Answer {
	logger.Section("Query Execution")

	req = req.Normalised()
	if err := req.Validate(); err != nil {
		return domain.Answer{
			Text:    "Please provide a question to answer.",
			Sources: []string{},
		}
	}

	logger.Debug("Query: %q (model=%s, language=%s)", req.Message, req.Model, req.Language)

	kind := s.classifier.Classify(req.Message)
	logger.Info("Classified as %s", kind)

	if kind == domain.QueryComputational {
		return s.computeAnswer(ctx, req)
	}
	return s.retrieveAnswer(ctx, req)
}

// computeAnswer loads rows from every ready structured dataset and
// delegates to the computation engine.
func (s *RAGService) computeAnswer(ctx context.Context, req domain.QueryRequest) domain.Answer {
	answer := domain.Answer{
		IsComputation: true,
		Sources:       []string{},
		Metadata:      map[string]any{"engine": "computation"},
	}

	if s.datasetStore == nil || s.rowReader == nil {
		answer.Text = noStructuredDataAnswer
		return answer
	}

	datasets, err := s.datasetStore.ListByStatus(ctx, domain.StatusReady)
	if err != nil {
		logger.Warn("Listing ready datasets failed: %v", err)
		answer.Text = noStructuredDataAnswer
		return answer
	}

	var rows []domain.Row
	var sources []string
	for _, ds := range datasets {
		if !ds.FileType.IsStructured() {
			continue
		}
		loaded, err := s.rowReader.ReadRows(ctx, ds.SourceLocation)
		if err != nil {
			// One unreadable dataset must not sink the others.
			logger.Warn("Reading rows from %s failed: %v", ds.Name, err)
			continue
		}
		rows = append(rows, loaded...)
		sources = append(sources, ds.Name)
		logger.Debug("Loaded %d rows from %s", len(loaded), ds.Name)
	}

	if len(rows) == 0 {
		answer.Text = noStructuredDataAnswer
		return answer
	}

	answer.Text = s.engine.Compute(req.Message, rows)
	answer.Sources = dedupe(sources)
	return answer
}

// retrieveAnswer embeds the query, retrieves the top-K chunks and asks
// the language model to answer from that context.
func (s *RAGService) retrieveAnswer(ctx context.Context, req domain.QueryRequest) domain.Answer {
	answer := domain.Answer{
		Sources:  []string{},
		Metadata: map[string]any{"model": req.Model},
	}

	chunks, err := s.retrieveChunks(ctx, req.Message)
	if err != nil {
		logger.Warn("Retrieval failed: %v", err)
		answer.Text = "I couldn't search the knowledge base right now. Please try again."
		return answer
	}
	if len(chunks) == 0 {
		logger.Debug("No chunks retrieved, returning fixed answer")
		answer.Text = insufficientKnowledgeAnswer
		return answer
	}

	// Context block preserves retrieval rank order.
	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}
	contextBlock := strings.Join(contents, "\n\n")

	sources := make([]string, len(chunks))
	for i, chunk := range chunks {
		sources[i] = chunk.Metadata.SourceLabel()
	}
	answer.Sources = dedupe(sources)

	if s.llm == nil {
		answer.Text = "The language model is not configured, so I can only show the matching context:\n\n" + contextBlock
		return answer
	}

	prompt := s.buildPrompt(req, contextBlock)
	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Model:       req.Model,
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		logger.Warn("Language model call failed: %v", err)
		answer.Text = "I found relevant context but couldn't generate an answer: the language model is unavailable. Please try again."
		return answer
	}

	answer.Text = cleanResponse(raw)
	return answer
}

// retrieveChunks embeds the query and hydrates the top-K hits from the
// chunk store. Hits whose chunk has since been deleted are skipped.
func (s *RAGService) retrieveChunks(ctx context.Context, query string) ([]domain.Chunk, error) {
	if s.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if s.chunkStore == nil {
		return nil, errors.New("chunk store unavailable")
	}

	embedding, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	hits, err := s.vectorIndex.Search(ctx, embedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))

	chunks := make([]domain.Chunk, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.chunkStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}
		chunks = append(chunks, *chunk)
	}

	return chunks, nil
}

// buildPrompt assembles the answer prompt: role statement, optional
// language instruction, context block, question, and answer-quality
// instructions.
func (s *RAGService) buildPrompt(req domain.QueryRequest, contextBlock string) string {
	template := s.loadPrompt(driven.PromptRAGAnswer, defaultRAGPrompt)

	languageInstruction := ""
	if !strings.EqualFold(req.Language, domain.DefaultLanguage) {
		languageInstruction = fmt.Sprintf("\nRespond in %s.", req.Language)
	}

	return fmt.Sprintf(template, languageInstruction, contextBlock, req.Message)
}

// loadPrompt loads a prompt from the store, falling back to the default
// if unavailable.
func (s *RAGService) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// cleanResponse trims whitespace and strips leading label prefixes the
// model may echo.
func cleanResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	for _, prefix := range answerLabelPrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
			break
		}
	}
	return cleaned
}

// dedupe removes duplicates while preserving first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	return result
}
