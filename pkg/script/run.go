package script

import (
	"fmt"

	"github.com/vango-dev/treebuilder/internal/errors"
	"github.com/vango-dev/treebuilder/pkg/tree"
)

// Run applies every operation to b in order and then calls b.Finish.
// It stops at the first failure and returns a T022 error located at the
// failing entry; the builder's error is available through errors.Is and
// errors.As.
func (s *Script) Run(b tree.Builder) error {
	for i := range s.Ops {
		op := &s.Ops[i]
		if err := Apply(b, *op); err != nil {
			return s.locate(errors.New("T022"), op.Line, op.Column).
				WithDetail(fmt.Sprintf("Operation #%d (%s) failed.", i+1, op.Kind)).
				Wrap(err)
		}
	}
	if err := b.Finish(); err != nil {
		if !tree.IsContractError(err) {
			return errors.New("T022").
				WithDetail("The builder failed while finishing the script.").
				Wrap(err)
		}
		return errors.New("T022").
			WithDetail("The script ended with elements still open.").
			WithSuggestion("Add a close entry for every open").
			Wrap(err)
	}
	return nil
}

// Apply performs a single operation on b.
func Apply(b tree.Builder, op Op) error {
	var err error
	switch op.Kind {
	case KindOpen:
		_, err = b.OpenElement(op.Name, op.Namespace)
	case KindClose:
		err = b.CloseElement()
	case KindAttr:
		err = b.SetAttribute(op.Name, op.Value)
	case KindText:
		_, err = b.AppendText(op.Text)
	case KindComment:
		_, err = b.AppendComment(op.Text)
	case KindHTML:
		_, err = b.AppendHTML(op.Text)
	default:
		err = fmt.Errorf("script: unknown operation %q", op.Kind)
	}
	return err
}
