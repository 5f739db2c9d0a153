package suggest

// term is a fixed vocabulary entry with its popularity score.
type term struct {
	text  string
	score float64
}

// commonTags are tags users search for often across the catalog.
var commonTags = []term{
	{"Gestão", 68},
	{"Finanças", 66},
	{"Marketing", 64},
	{"E-commerce", 62},
	{"ERP", 60},
	{"CRM", 58},
	{"Vendas", 56},
	{"Contabilidade", 54},
	{"Pagamentos", 52},
	{"Recursos Humanos", 50},
	{"Logística", 46},
	{"Educação", 44},
	{"Saúde", 42},
	{"Automação", 40},
	{"Atendimento", 38},
	{"Jurídico", 34},
}

// commonFeatures are feature phrases frequently compared by users.
var commonFeatures = []term{
	{"Emissão de nota fiscal", 57},
	{"Pagamento via Pix", 55},
	{"Integração com WhatsApp", 53},
	{"Emissão de boletos", 49},
	{"Conciliação bancária", 47},
	{"App mobile", 45},
	{"API aberta", 43},
	{"Relatórios personalizados", 41},
	{"Suporte em português", 39},
	{"Multiempresa", 35},
	{"Controle de estoque", 33},
	{"Assinatura eletrônica", 31},
}
