// Package validate centralizes struct-tag validation so every package that
// decodes untrusted data (wire payloads, configuration) validates it the
// same way and gets back the same kind of error.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   = validator.New()
	translator ut.Translator
)

func init() {
	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validate, translator)
}

// Check runs struct-tag validation against val and, on failure, returns a
// single error whose message concatenates every field's translated
// complaint. A nil return means val is valid.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {
		verrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}

		var msgs []string
		for _, verror := range verrors {
			msgs = append(msgs, verror.Translate(translator))
		}

		return fmt.Errorf("validate: %s", strings.Join(msgs, ", "))
	}

	return nil
}
