package cvar

// Pipeline is an ordered chain of string stages, one parser, and typed stages.
// Every run starts from its input alone; stages capture their configuration
// when they are added. The zero value is an empty pipeline without a parser.
type Pipeline[T any] struct {
	stringStages []StringStage
	parser       Parser[T]
	typedStages  []TypedStage[T]
}

// NewPipeline creates an empty pipeline.
func NewPipeline[T any]() *Pipeline[T] {
	return &Pipeline[T]{}
}

// AddStringStage appends a stage that runs before parsing.
func (p *Pipeline[T]) AddStringStage(stage StringStage) *Pipeline[T] {
	p.stringStages = append(p.stringStages, stage)
	return p
}

// SetParser replaces the parser.
func (p *Pipeline[T]) SetParser(parser Parser[T]) *Pipeline[T] {
	p.parser = parser
	return p
}

// AddTypedStage appends a stage that runs after parsing.
func (p *Pipeline[T]) AddTypedStage(stage TypedStage[T]) *Pipeline[T] {
	p.typedStages = append(p.typedStages, stage)
	return p
}

// Parse runs the string stages, the parser, then the typed stages, stopping
// at the first failure and returning that stage's error unchanged.
func (p *Pipeline[T]) Parse(raw string) (T, error) {
	var zero T

	value := raw
	for _, stage := range p.stringStages {
		next, err := stage(value)
		if err != nil {
			return zero, err
		}
		value = next
	}

	if p.parser == nil {
		return zero, ErrNoParser
	}

	parsed, err := p.parser(value)
	if err != nil {
		return zero, err
	}

	return p.Check(parsed)
}

// Check runs only the typed stages on value.
func (p *Pipeline[T]) Check(value T) (T, error) {
	for _, stage := range p.typedStages {
		next, err := stage(value)
		if err != nil {
			var zero T
			return zero, err
		}
		value = next
	}
	return value, nil
}

// Func returns the pipeline as a plain parse function.
func (p *Pipeline[T]) Func() ParseFunc[T] {
	return p.Parse
}
