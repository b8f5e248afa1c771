package server

import (
	"context"

	"github.com/ginjaninja78/payment-advice-generator/internal/aggregate"
	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/ginjaninja78/payment-advice-generator/internal/generator"
	"github.com/ginjaninja78/payment-advice-generator/internal/types"
	"github.com/rs/zerolog"
)

// InvoiceService runs the generation pipeline for an uploaded table.
type InvoiceService interface {
	Generate(ctx context.Context, table *types.Table, settings config.Settings) (*generator.Result, error)
	Preview(ctx context.Context, table *types.Table, settings config.Settings) ([]aggregate.Count, error)
}

// GeneratorService is the InvoiceService backed by the generator package.
type GeneratorService struct {
	logo       generator.LogoLoader
	logoSource string
}

// NewGeneratorService returns a service whose documents carry the image at
// logoSource. A nil loader or empty source leaves documents without a logo.
func NewGeneratorService(logo generator.LogoLoader, logoSource string) *GeneratorService {
	return &GeneratorService{logo: logo, logoSource: logoSource}
}

func (s *GeneratorService) Generate(ctx context.Context, table *types.Table, settings config.Settings) (*generator.Result, error) {
	g, err := s.generator(ctx, settings)
	if err != nil {
		return nil, err
	}
	return g.Run(ctx, table)
}

func (s *GeneratorService) Preview(ctx context.Context, table *types.Table, settings config.Settings) ([]aggregate.Count, error) {
	g, err := s.generator(ctx, settings)
	if err != nil {
		return nil, err
	}
	return g.Preview(table)
}

func (s *GeneratorService) generator(ctx context.Context, settings config.Settings) (*generator.Generator, error) {
	var opts []generator.Option
	if s.logo != nil && s.logoSource != "" {
		opts = append(opts, generator.WithLogo(s.logo, s.logoSource))
	}
	return generator.New(settings, *zerolog.Ctx(ctx), opts...)
}
