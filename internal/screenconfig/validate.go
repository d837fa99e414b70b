package screenconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wonny/epscreen/internal/contracts"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks struct tags, then the cross-field rules tags cannot express
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return ValidationError{
				Field:   strings.ToLower(fe.Namespace()),
				Message: fmt.Sprintf("failed %q (param=%s)", fe.Tag(), fe.Param()),
			}
		}
		return err
	}

	if _, err := contracts.ParsePeriod(cfg.Metrics.HistoryLookback); err != nil {
		return ValidationError{"metrics.history_lookback", err.Error()}
	}

	// 중복 키워드는 제목 하나에 점수를 두 번 더하게 됨
	seen := make(map[string]bool, len(cfg.News.Keywords))
	for _, kw := range cfg.News.Keywords {
		k := strings.ToLower(strings.TrimSpace(kw))
		if seen[k] {
			return ValidationError{"news.keywords", fmt.Sprintf("duplicate keyword %q", kw)}
		}
		seen[k] = true
	}

	return nil
}
