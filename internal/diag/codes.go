package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexInfo               Code = 1000
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1004
	LexTokenTooLong       Code = 1005

	// Синтаксические
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002

	// I/O
	IOLoadFileError Code = 4001

	// Конфигурация проекта
	ProjInfo            Code = 5000
	ProjInvalidManifest Code = 5001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnterminatedString: "Unterminated string",
	LexBadNumber:          "Number out of range",
	LexTokenTooLong:       "Token too long",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unmatched closing parenthesis",
	SynUnclosedDelimiter:  "Unclosed parenthesis",
	IOLoadFileError:       "I/O load file error",
	ProjInfo:              "Project information",
	ProjInvalidManifest:   "Invalid shisp.toml",
	ObsInfo:               "Observability information",
	ObsTimings:            "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
