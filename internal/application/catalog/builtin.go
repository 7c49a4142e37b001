package catalog

import "copystudio-api/internal/domain/entity"

// Builtin 返回内置的默认模板目录（每次返回新副本）
func Builtin() []entity.Template {
	return []entity.Template{
		{
			ID:            "landing-conversion",
			Name:          "Landing Page de Conversão",
			Description:   "Estrutura completa de landing page focada em captar leads e converter visitantes em clientes com prova social e CTA claro.",
			Tags:          []string{"landing page", "conversão", "leads"},
			EstimatedTime: "15 min",
			Parameters: entity.TemplateParameters{
				{Name: "produto", Label: "Produto ou serviço", Type: "text", Required: true},
				{Name: "publico", Label: "Público-alvo", Type: "text", Required: true},
			},
			Position: 0,
		},
		{
			ID:            "email-nurturing",
			Name:          "Sequência de E-mails de Nutrição",
			Description:   "Sequência de e-mails para nutrir leads ao longo da jornada, com assuntos, corpo e chamadas para ação por etapa.",
			Tags:          []string{"email", "nutrição", "automação"},
			EstimatedTime: "20 min",
			Parameters: entity.TemplateParameters{
				{Name: "etapas", Label: "Número de e-mails", Type: "number", Default: "5"},
			},
			Position: 1,
		},
		{
			ID:            "content-strategy",
			Name:          "Plano Estratégico de Conteúdo",
			Description:   "Planejamento editorial com pilares, calendário, canais e métricas para orientar a produção de conteúdo do trimestre.",
			Tags:          []string{"estratégia", "planejamento", "conteúdo"},
			EstimatedTime: "30 min",
			Parameters: entity.TemplateParameters{
				{Name: "periodo", Label: "Período do plano", Type: "select", Options: []string{"mensal", "trimestral", "semestral"}},
			},
			Position: 2,
		},
	}
}
