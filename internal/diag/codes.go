package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInvalidToken   Code = 1001
	LexTokenTooLarge  Code = 1002
	LexSourceTooLarge Code = 1003

	// Парсерные
	SynParseError Code = 2001

	// Модули
	ModMalformed    Code = 5001
	ModDuplicate    Code = 5002
	MacroUnexpanded Code = 5003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:       "Unknown error",
		LexInvalidToken:   "Invalid token",
		LexTokenTooLarge:  "Token too large",
		LexSourceTooLarge: "Source file too large",
		SynParseError:     "Syntax error",
		ModMalformed:      "Module declaration without a name",
		ModDuplicate:      "Module defined more than once",
		MacroUnexpanded:   "Macro call left unexpanded",
	}
)

// ID returns the stable short identifier, e.g. SYN2001.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("MOD%04d", ic)
	}
	return fmt.Sprintf("E%04d", int(c))
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
