package llm

import "fmt"

// Service layers the application's three call shapes over the Gateway
// primitive: structured note extraction, free-form Q&A, and topic research.
type Service struct {
	gateway Gateway
}

func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// GenerateNotes asks the model to split raw text into structured notes and
// returns the validated batch in the order the model emitted it.
func (s *Service) GenerateNotes(rawInput string) ([]GeneratedNote, error) {
	resp, err := s.gateway.Generate(extractionPrompt(rawInput))
	if err != nil {
		return nil, fmt.Errorf("failed to get response from LLM: %w", err)
	}

	notes, err := ParseNotes(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response into notes: %w", err)
	}

	return notes, nil
}

// AnswerQuestion answers a free-form question about a note, given the raw
// source text and the note's generated content as context.
func (s *Service) AnswerQuestion(rawContext, noteContent, question string) (string, error) {
	answer, err := s.gateway.Generate(answerPrompt(rawContext, noteContent, question))
	if err != nil {
		return "", fmt.Errorf("failed to get answer from LLM: %w", err)
	}
	return answer, nil
}

// Research expands a bare topic into detailed background material suitable
// as note-extraction source text.
func (s *Service) Research(topic string) (string, error) {
	text, err := s.gateway.Generate(researchPrompt(topic))
	if err != nil {
		return "", fmt.Errorf("failed to research topic: %w", err)
	}
	return text, nil
}
