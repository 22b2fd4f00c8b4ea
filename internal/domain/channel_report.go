package domain

// ChannelReport é uma linha do relatório final, por (channel_name, date).
//
// CPO e ROAS são ponteiros: nil representa a razão indefinida (ihc == 0 para
// CPO, cost == 0 para ROAS), que vira NULL no banco e campo vazio no CSV.
type ChannelReport struct {
	ChannelName string
	Date        string
	Cost        float64
	IHC         float64
	IHCRevenue  float64
	CPO         *float64
	ROAS        *float64
}
