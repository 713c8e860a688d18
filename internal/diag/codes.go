package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexUnterminatedBlock  Code = 1003
	LexBadNumber          Code = 1004
	LexBadColor           Code = 1005

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectIdentifier  Code = 2003
	SynExpectColon       Code = 2004
	SynExpectValue       Code = 2005
	SynBadUsePath        Code = 2006
	SynBadVector         Code = 2007
	SynWildcardNotLast   Code = 2008

	// Разрешение имён и раскрытие документов
	SemInfo                Code = 3000
	SemItemNotOnScope      Code = 3001
	SemPropertyNotClass    Code = 3002
	SemOverrideNonClass    Code = 3003
	SemTargetNotCall       Code = 3004
	SemImportNotFound      Code = 3005
	SemUsePathNotFound     Code = 3006
	SemPrimitiveBaseAsRoot Code = 3007
	SemSelfPathNotFound    Code = 3008
	SemWildcardNotLast     Code = 3010
	SemPathNotFound        Code = 3012

	IOLoadFileError Code = 4001

	// Проект и зависимости
	ProjInfo              Code = 5000
	ProjMissingDependency Code = 5001
	ProjDuplicateModule   Code = 5002
	ProjImportCycle       Code = 5003
	ProjSelfImport        Code = 5004
	ProjParseFailed       Code = 5005
	ProjBadManifest       Code = 5006

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	LexInfo:                "Lexical information",
	LexUnknownChar:         "Unknown character",
	LexUnterminatedString:  "Unterminated string",
	LexUnterminatedBlock:   "Unterminated block comment",
	LexBadNumber:           "Bad number",
	LexBadColor:            "Bad color literal",
	SynInfo:                "Syntax information",
	SynUnexpectedToken:     "Unexpected token",
	SynUnclosedDelimiter:   "Unclosed delimiter",
	SynExpectIdentifier:    "Expected identifier",
	SynExpectColon:         "Expected ':' after key",
	SynExpectValue:         "Expected value",
	SynBadUsePath:          "Malformed use path",
	SynBadVector:           "Malformed vector literal",
	SynWildcardNotLast:     "Wildcard must end a use path",
	SemInfo:                "Resolution information",
	SemItemNotOnScope:      "Cannot find item on scope",
	SemPropertyNotClass:    "Property is not a class",
	SemOverrideNonClass:    "Cannot override items in non-class",
	SemTargetNotCall:       "Target is not a call",
	SemImportNotFound:      "Cannot find import",
	SemUsePathNotFound:     "Use path not found",
	SemPrimitiveBaseAsRoot: "Cannot use a primitive base as path root",
	SemSelfPathNotFound:    "Self path not found",
	SemWildcardNotLast:     "Wildcard must end a use path",
	SemPathNotFound:        "Path not found",
	IOLoadFileError:        "I/O load file error",
	ProjInfo:               "Project information",
	ProjMissingDependency:  "Cannot find dependency",
	ProjDuplicateModule:    "Duplicate module definition",
	ProjImportCycle:        "Import cycle detected",
	ProjSelfImport:         "Module imports itself",
	ProjParseFailed:        "Module failed to parse",
	ProjBadManifest:        "Invalid workspace manifest",
	ObsInfo:                "Observability information",
	ObsTimings:             "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
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
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
