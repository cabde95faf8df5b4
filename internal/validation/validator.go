package validation

import (
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// minClienteLen is measured after trimming surrounding whitespace.
const minClienteLen = 3

// New returns a configured validator with custom struct-level validation
// registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// the minimum-length rule applies to the trimmed value, so a plain
	// `min=3` tag would accept "  a  "
	v.RegisterStructValidation(createOrderStructValidation, CreateOrderRequest{})

	return v
}

func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)

	if req.Cliente != "" && len(strings.TrimSpace(req.Cliente)) < minClienteLen {
		sl.ReportError(req.Cliente, "cliente", "Cliente", "trimmed_min", "")
	}
}

// Details converts a validator error into the client-facing message list:
// one Portuguese message per violated rule, all rules reported together.
func Details(err error) []string {
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(ve))
	for _, fe := range ve {
		details = append(details, messageFor(fe))
	}
	return details
}

func messageFor(fe validatorv10.FieldError) string {
	switch fe.StructField() {
	case "Cliente":
		if fe.Tag() == "required" {
			return `Campo "cliente" é obrigatório`
		}
		return `Campo "cliente" deve ter pelo menos 3 caracteres`
	case "Itens":
		if fe.Tag() == "required" {
			return `Campo "itens" é obrigatório`
		}
		return "Deve haver pelo menos um item no pedido"
	case "Mesa":
		if fe.Tag() == "required" {
			return `Campo "mesa" é obrigatório`
		}
		return `Campo "mesa" deve ser maior que zero`
	default:
		return fe.Error()
	}
}
