package model

// Language is a programming language of a submission.
type Language string

const (
	LanguageJava       Language = "JAVA"
	LanguagePython     Language = "PYTHON"
	LanguageCpp        Language = "CPP"
	LanguageJavaScript Language = "JAVASCRIPT"
)

func (l Language) IsValid() bool {
	switch l {
	case LanguageJava, LanguagePython, LanguageCpp, LanguageJavaScript:
		return true
	default:
		return false
	}
}

func (l Language) String() string {
	return string(l)
}
