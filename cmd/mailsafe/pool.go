package main

import (
	mailsafe "github.com/alnah/go-mailsafe"
)

// converterPool adapts mailsafe.ConverterPool to the Pool interface.
type converterPool struct {
	pool *mailsafe.ConverterPool
}

// Compile-time check that converterPool implements Pool.
var _ Pool = (*converterPool)(nil)

// newConverterPool creates a pool of n lazily built converters.
func newConverterPool(n int, opts ...mailsafe.Option) Pool {
	return &converterPool{pool: mailsafe.NewConverterPool(n, opts...)}
}

// Acquire returns nil when no converter could be created.
func (p *converterPool) Acquire() CLIConverter {
	conv := p.pool.Acquire()
	if conv == nil {
		// A typed nil would not compare equal to nil.
		return nil
	}
	return conv
}

// Release ignores converters that did not come from this pool.
func (p *converterPool) Release(conv CLIConverter) {
	if c, ok := conv.(*mailsafe.Converter); ok {
		p.pool.Release(c)
	}
}

func (p *converterPool) Size() int        { return p.pool.Size() }
func (p *converterPool) InitError() error { return p.pool.InitError() }
func (p *converterPool) Close() error     { return p.pool.Close() }
