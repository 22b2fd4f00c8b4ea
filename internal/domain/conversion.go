package domain

import (
	"fmt"
	"time"
)

// Conversion representa um evento de compra/meta registrado pela ingestão
// upstream. Imutável após a ingestão.
type Conversion struct {
	ConvID   string
	UserID   string
	ConvDate string
	ConvTime string
	Revenue  float64
}

// NewConversion valida os campos obrigatórios antes de construir a conversão
func NewConversion(convID, userID, convDate, convTime string, revenue float64) (*Conversion, error) {
	c := &Conversion{
		ConvID:   convID,
		UserID:   userID,
		ConvDate: convDate,
		ConvTime: convTime,
		Revenue:  revenue,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Conversion) Validate() error {
	if c.ConvID == "" {
		return fmt.Errorf("conversão sem conv_id")
	}
	if c.UserID == "" {
		return fmt.Errorf("conversão %s sem user_id", c.ConvID)
	}
	if c.Revenue < 0 {
		return fmt.Errorf("conversão %s com receita negativa", c.ConvID)
	}
	if _, err := c.Timestamp(); err != nil {
		return fmt.Errorf("conversão %s com data/hora inválida: %w", c.ConvID, err)
	}

	return nil
}

// Timestamp combina conv_date e conv_time em um time.Time (UTC)
func (c *Conversion) Timestamp() (time.Time, error) {
	return ParseDateTime(c.ConvDate, c.ConvTime)
}
