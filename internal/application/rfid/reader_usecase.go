package rfid

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
)

// ReaderUseCase valida y reenvía la configuración del lector al gateway.
// Los valores fuera de rango se rechazan sin llamar al gateway.
type ReaderUseCase struct {
	gateway ReaderGateway
	hub     *Hub
}

// NewReaderUseCase construye el caso de uso.
func NewReaderUseCase(gateway ReaderGateway, hub *Hub) *ReaderUseCase {
	return &ReaderUseCase{gateway: gateway, hub: hub}
}

// Connect abre el puerto serie del lector.
func (uc *ReaderUseCase) Connect(ctx context.Context, in dto.ReaderConnectRequest) (*dto.ReaderStatusResponse, error) {
	port := strings.TrimSpace(in.ComPort)
	if port == "" {
		return nil, domain.Invalid("com_port es requerido")
	}
	if in.BaudRate <= 0 {
		return nil, domain.Invalid("baud_rate debe ser mayor que 0")
	}
	if err := uc.gateway.Connect(ctx, port, in.BaudRate); err != nil {
		return nil, err
	}
	return uc.Status(ctx)
}

// Disconnect cierra la conexión; si estaba leyendo deja de hacerlo.
func (uc *ReaderUseCase) Disconnect(ctx context.Context) error {
	if err := uc.gateway.Disconnect(ctx); err != nil {
		return err
	}
	uc.hub.SetReading(false)
	return nil
}

// Start inicia el inventario continuo.
func (uc *ReaderUseCase) Start(ctx context.Context) error {
	if err := uc.gateway.Start(ctx); err != nil {
		return err
	}
	uc.hub.SetReading(true)
	return nil
}

// Stop detiene el inventario.
func (uc *ReaderUseCase) Stop(ctx context.Context) error {
	if err := uc.gateway.Stop(ctx); err != nil {
		return err
	}
	uc.hub.SetReading(false)
	return nil
}

// Status combina la conexión informada por el gateway con el estado del hub.
func (uc *ReaderUseCase) Status(ctx context.Context) (*dto.ReaderStatusResponse, error) {
	st, err := uc.gateway.Status(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ReaderStatusResponse{Connected: st.Connected, Reading: st.Connected && uc.hub.Reading()}, nil
}

// GetBaseband lee los parámetros de banda base.
func (uc *ReaderUseCase) GetBaseband(ctx context.Context) (*dto.BasebandDTO, error) {
	b, err := uc.gateway.GetBaseband(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.BasebandDTO{BaseSpeed: b.BaseSpeed, QValue: b.QValue, Session: b.Session, InventoryFlag: b.InventoryFlag}, nil
}

// SetBaseband valida rangos y fija la banda base.
func (uc *ReaderUseCase) SetBaseband(ctx context.Context, in dto.BasebandDTO) (*dto.BasebandDTO, error) {
	b := entity.Baseband{BaseSpeed: in.BaseSpeed, QValue: in.QValue, Session: in.Session, InventoryFlag: in.InventoryFlag}
	if field, ok := b.Validate(); !ok {
		return nil, domain.Invalid(field + " fuera de rango")
	}
	if err := uc.gateway.SetBaseband(ctx, b); err != nil {
		return nil, err
	}
	return &in, nil
}

// GetFrequencyRange lee la banda de frecuencia con su etiqueta.
func (uc *ReaderUseCase) GetFrequencyRange(ctx context.Context) (*dto.FrequencyRangeDTO, error) {
	fr, err := uc.gateway.GetFrequencyRange(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.FrequencyRangeDTO{Index: fr.Index, Label: entity.FrequencyLabels[fr.Index]}, nil
}

// SetFrequencyRange fija la banda (índices 0,1,2,3,4,9).
func (uc *ReaderUseCase) SetFrequencyRange(ctx context.Context, in dto.FrequencyRangeDTO) (*dto.FrequencyRangeDTO, error) {
	label, ok := entity.FrequencyLabels[in.Index]
	if !ok {
		return nil, domain.Invalid(fmt.Sprintf("índice de frecuencia no soportado: %d", in.Index))
	}
	if err := uc.gateway.SetFrequencyRange(ctx, in.Index); err != nil {
		return nil, err
	}
	return &dto.FrequencyRangeDTO{Index: in.Index, Label: label}, nil
}

// FrequencyOptions bandas soportadas ordenadas por índice.
func (uc *ReaderUseCase) FrequencyOptions() []dto.FrequencyRangeDTO {
	out := make([]dto.FrequencyRangeDTO, 0, len(entity.FrequencyLabels))
	for i, l := range entity.FrequencyLabels {
		out = append(out, dto.FrequencyRangeDTO{Index: i, Label: l})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Index < out[b].Index })
	return out
}

// GetAntennaPower lee la potencia de cada antena.
func (uc *ReaderUseCase) GetAntennaPower(ctx context.Context) (*dto.AntennaPowerList, error) {
	powers, err := uc.gateway.GetAntennaPower(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(powers, func(a, b int) bool { return powers[a].Port < powers[b].Port })
	out := &dto.AntennaPowerList{Antennas: make([]dto.AntennaPowerDTO, 0, len(powers))}
	for _, p := range powers {
		out.Antennas = append(out.Antennas, dto.AntennaPowerDTO{Port: p.Port, Power: p.Power})
	}
	return out, nil
}

// SetAntennaPower valida puerto (1..4) y potencia (1..33) de cada antena.
func (uc *ReaderUseCase) SetAntennaPower(ctx context.Context, in dto.AntennaPowerList) (*dto.AntennaPowerList, error) {
	if len(in.Antennas) == 0 {
		return nil, domain.Invalid("antennas está vacío")
	}
	seen := make(map[int]bool, len(in.Antennas))
	powers := make([]entity.AntennaPower, 0, len(in.Antennas))
	for _, a := range in.Antennas {
		p := entity.AntennaPower{Port: a.Port, Power: a.Power}
		if field, ok := p.Validate(); !ok {
			return nil, domain.Invalid(fmt.Sprintf("antena %d: %s fuera de rango", a.Port, field))
		}
		if seen[a.Port] {
			return nil, domain.Invalid(fmt.Sprintf("antena %d repetida", a.Port))
		}
		seen[a.Port] = true
		powers = append(powers, p)
	}
	if err := uc.gateway.SetAntennaPower(ctx, powers); err != nil {
		return nil, err
	}
	return &in, nil
}
