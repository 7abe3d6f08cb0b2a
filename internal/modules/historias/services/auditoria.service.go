package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"optometria-core/internal/infrastructure/database/mongodb"
)

// coleccionEventos guarda la bitácora de eventos del ciclo de vida de
// las historias clínicas
const coleccionEventos = "eventos_historias"

// EventoAuditoria es una entrada de la bitácora
type EventoAuditoria struct {
	HistoriaID int64  `bson:"historia_id"`
	Tipo       string `bson:"tipo"`
	UsuarioID  int64  `bson:"usuario_id"`
	Rol        string `bson:"rol"`
	Detalle    string `bson:"detalle,omitempty"`
}

// AuditoriaService registra eventos en MongoDB con la mejor diligencia
// posible: un fallo de bitácora jamás afecta la operación que lo originó.
type AuditoriaService struct {
	mongo *mongodb.Client
}

// NewAuditoriaService crea una nueva instancia del servicio de auditoría
func NewAuditoriaService(mongo *mongodb.Client) *AuditoriaService {
	return &AuditoriaService{mongo: mongo}
}

// RegistrarAsincrono despacha el evento fuera de la ruta de la petición.
// El contexto es propio para que el cierre de la petición no lo cancele.
func (s *AuditoriaService) RegistrarAsincrono(evento EventoAuditoria) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.Registrar(ctx, evento); err != nil {
			fmt.Printf("[AUDITORIA] ⚠️ Evento %s de historia %d no registrado: %v\n",
				evento.Tipo, evento.HistoriaID, err)
		}
	}()
}

// Registrar inserta el evento con su marca temporal
func (s *AuditoriaService) Registrar(ctx context.Context, evento EventoAuditoria) error {
	if s.mongo == nil {
		return fmt.Errorf("bitácora no configurada")
	}

	documento := bson.M{
		"historia_id": evento.HistoriaID,
		"tipo":        evento.Tipo,
		"usuario_id":  evento.UsuarioID,
		"rol":         evento.Rol,
		"registrado":  time.Now().UTC(),
	}
	if evento.Detalle != "" {
		documento["detalle"] = evento.Detalle
	}

	_, err := s.mongo.Collection(coleccionEventos).InsertOne(ctx, documento)
	return err
}

// ListarPorHistoria retorna la bitácora de una historia, reciente primero
func (s *AuditoriaService) ListarPorHistoria(ctx context.Context, historiaID int64) ([]bson.M, error) {
	if s.mongo == nil {
		return nil, fmt.Errorf("bitácora no configurada")
	}

	filtro := bson.M{"historia_id": historiaID}
	orden := options.Find().SetSort(bson.D{{Key: "registrado", Value: -1}})

	cursor, err := s.mongo.Collection(coleccionEventos).Find(ctx, filtro, orden)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	eventos := []bson.M{}
	if err := cursor.All(ctx, &eventos); err != nil {
		return nil, err
	}
	return eventos, nil
}
