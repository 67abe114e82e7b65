package parser

import "jbcram/internal/domain"

// Parser turns a finished test result into stored failure records
type Parser interface {
	ParseFailure(result domain.TestResult) []domain.TestFailure
}
