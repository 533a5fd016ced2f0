package models

// CustoConabItem is one line of the CONAB production-cost benchmark for
// arabica coffee. The table ships with the binary and is never edited at runtime.
type CustoConabItem struct {
	Discriminacao   string  `json:"discriminacao"`
	CustoPorHectare float64 `json:"custo_por_hectare"`
	CustoPorSaca    float64 `json:"custo_por_saca"`
	ParticipacaoCOE float64 `json:"participacao_coe"`
	ParticipacaoCT  float64 `json:"participacao_ct"`
}

// ConabReferenceProductivity is the yield (sacas/ha) the benchmark per-bag costs assume.
const ConabReferenceProductivity = 30.0

var custoConabCafe = []CustoConabItem{
	{Discriminacao: "Operações com máquinas", CustoPorHectare: 2150.00, CustoPorSaca: 71.67, ParticipacaoCOE: 11.5, ParticipacaoCT: 9.8},
	{Discriminacao: "Mão de obra", CustoPorHectare: 5480.00, CustoPorSaca: 182.67, ParticipacaoCOE: 29.3, ParticipacaoCT: 25.0},
	{Discriminacao: "Fertilizantes", CustoPorHectare: 5920.00, CustoPorSaca: 197.33, ParticipacaoCOE: 31.7, ParticipacaoCT: 27.0},
	{Discriminacao: "Defensivos", CustoPorHectare: 2630.00, CustoPorSaca: 87.67, ParticipacaoCOE: 14.1, ParticipacaoCT: 12.0},
	{Discriminacao: "Despesas administrativas", CustoPorHectare: 620.00, CustoPorSaca: 20.67, ParticipacaoCOE: 3.3, ParticipacaoCT: 2.8},
	{Discriminacao: "Despesas de pós-colheita", CustoPorHectare: 1310.00, CustoPorSaca: 43.67, ParticipacaoCOE: 7.0, ParticipacaoCT: 6.0},
	{Discriminacao: "Manutenção de benfeitorias", CustoPorHectare: 370.00, CustoPorSaca: 12.33, ParticipacaoCOE: 2.0, ParticipacaoCT: 1.7},
	{Discriminacao: "Juros do financiamento", CustoPorHectare: 450.00, CustoPorSaca: 15.00, ParticipacaoCOE: 0, ParticipacaoCT: 2.1},
	{Discriminacao: "Depreciações", CustoPorHectare: 1950.00, CustoPorSaca: 65.00, ParticipacaoCOE: 0, ParticipacaoCT: 8.9},
	{Discriminacao: "Outros itens", CustoPorHectare: 1040.00, CustoPorSaca: 34.67, ParticipacaoCOE: 1.1, ParticipacaoCT: 4.7},
}

// CustoConabCafe returns a copy of the bundled benchmark table.
func CustoConabCafe() []CustoConabItem {
	out := make([]CustoConabItem, len(custoConabCafe))
	copy(out, custoConabCafe)
	return out
}
