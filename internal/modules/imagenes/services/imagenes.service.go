package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"optometria-core/internal/app/config"
	"optometria-core/internal/infrastructure/database/postgres"
	"optometria-core/internal/modules/historias/secciones"
	historias "optometria-core/internal/modules/historias/services"
	"optometria-core/internal/modules/imagenes/queries"
	auth "optometria-core/internal/shared/middleware/auth"
)

// camposImagen enumera las columnas de sección que aceptan una imagen
// diagnóstica, por clave de sección y nombre wire del campo
var camposImagen = map[string]map[string]bool{
	"metodoGrafico": {"imagenID": true},
	"campimetria":   {"imagenID": true},
	"oftalmoscopia": {"imagenOjoDerechoID": true, "imagenOjoIzquierdoID": true},
}

var extensionesPermitidas = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Imagen es el registro de una imagen almacenada
type Imagen struct {
	ID            int64  `json:"id"`
	NombreArchivo string `json:"nombreArchivo"`
	Ruta          string `json:"-"`
	TipoMime      string `json:"tipoMime"`
	TamanoBytes   int64  `json:"tamanoBytes"`
}

// ImagenesService guarda imágenes diagnósticas en disco, registra sus
// metadatos en PostgreSQL y las vincula a la columna de sección
// correspondiente, todo dentro de una transacción: un fallo de
// vinculación no deja imágenes huérfanas registradas.
type ImagenesService struct {
	config    *config.Config
	db        *postgres.Client
	txManager *postgres.TransactionManager
	guard     *historias.GuardService
}

// NewImagenesService crea una nueva instancia del servicio de imágenes
func NewImagenesService(
	cfg *config.Config,
	db *postgres.Client,
	txManager *postgres.TransactionManager,
	guard *historias.GuardService,
) *ImagenesService {
	return &ImagenesService{config: cfg, db: db, txManager: txManager, guard: guard}
}

// Subir almacena la imagen y la vincula a la sección indicada
func (s *ImagenesService) Subir(
	ctx context.Context,
	ident auth.Identidad,
	historiaID int64,
	seccionClave string,
	campo string,
	archivo *multipart.FileHeader,
) (*Imagen, error) {
	wires, seccionValida := camposImagen[seccionClave]
	if !seccionValida || !wires[campo] {
		return nil, historias.ErrValidacion("la sección no acepta imágenes en ese campo", map[string]interface{}{
			"seccion": seccionClave,
			"campo":   campo,
		})
	}

	def, err := secciones.Buscar(seccionClave)
	if err != nil {
		return nil, historias.ErrSeccionDesconocida(seccionClave)
	}
	columna, ok := def.ColumnaDe(campo)
	if !ok {
		return nil, historias.ErrSeccionDesconocida(campo)
	}

	acceso, err := s.guard.Autorizar(ctx, historiaID, ident)
	if err != nil {
		return nil, err
	}
	if acceso.Archivado {
		return nil, historias.ErrArchivada(historiaID)
	}

	extension := strings.ToLower(filepath.Ext(archivo.Filename))
	if !extensionesPermitidas[extension] {
		return nil, historias.ErrValidacion("formato de imagen no soportado", map[string]interface{}{
			"extension":  extension,
			"permitidas": []string{".jpg", ".jpeg", ".png", ".webp"},
		})
	}

	maximo := int64(s.config.Imagenes.TamanoMaximoMB) * 1024 * 1024
	if archivo.Size > maximo {
		return nil, historias.ErrValidacion("la imagen excede el tamaño máximo", map[string]interface{}{
			"tamanoBytes": archivo.Size,
			"maximoMB":    s.config.Imagenes.TamanoMaximoMB,
		})
	}

	ruta, err := s.escribirArchivo(archivo, extension)
	if err != nil {
		return nil, historias.ErrDB("almacenamiento de imagen", err)
	}

	imagen := &Imagen{
		NombreArchivo: archivo.Filename,
		Ruta:          ruta,
		TipoMime:      archivo.Header.Get("Content-Type"),
		TamanoBytes:   archivo.Size,
	}

	err = s.txManager.WithTransaction(ctx, func(tx *postgres.Transaction) error {
		err := tx.QueryRow(ctx, queries.ImagenQueries.Insertar,
			historiaID, imagen.NombreArchivo, imagen.Ruta, imagen.TipoMime, imagen.TamanoBytes, ident.UsuarioID,
		).Scan(&imagen.ID)
		if err != nil {
			return historias.ErrDB("registro de imagen", err)
		}

		if err := tx.Exec(ctx, secciones.SQLUpsertCampo(def, columna), historiaID, imagen.ID); err != nil {
			return historias.ErrDB("vinculación de imagen a sección "+seccionClave, err)
		}
		return nil
	})
	if err != nil {
		// La fila no quedó registrada; el archivo suelto se limpia aquí
		if removeErr := os.Remove(ruta); removeErr != nil {
			fmt.Printf("[IMAGENES] ⚠️ Archivo huérfano no eliminado %s: %v\n", ruta, removeErr)
		}
		return nil, err
	}

	fmt.Printf("[IMAGENES] ✅ Imagen %d vinculada a %s.%s de historia %d\n",
		imagen.ID, seccionClave, campo, historiaID)
	return imagen, nil
}

// escribirArchivo persiste el contenido bajo la ruta base con un nombre
// opaco; el nombre original solo vive en los metadatos
func (s *ImagenesService) escribirArchivo(archivo *multipart.FileHeader, extension string) (string, error) {
	if err := os.MkdirAll(s.config.Imagenes.RutaBase, 0o755); err != nil {
		return "", err
	}

	origen, err := archivo.Open()
	if err != nil {
		return "", err
	}
	defer origen.Close()

	ruta := filepath.Join(s.config.Imagenes.RutaBase, uuid.New().String()+extension)
	destino, err := os.Create(ruta)
	if err != nil {
		return "", err
	}
	defer destino.Close()

	if _, err := io.Copy(destino, origen); err != nil {
		os.Remove(ruta)
		return "", err
	}

	return ruta, nil
}

// Obtener recupera los metadatos de una imagen para servir su contenido
func (s *ImagenesService) Obtener(ctx context.Context, imagenID int64) (*Imagen, error) {
	imagen := &Imagen{}
	err := s.db.QueryRow(ctx, queries.ImagenQueries.BuscarPorID, imagenID).Scan(
		&imagen.ID, &imagen.NombreArchivo, &imagen.Ruta, &imagen.TipoMime, &imagen.TamanoBytes,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, historias.ErrNoEncontrado("imagen", imagenID)
		}
		return nil, historias.ErrDB("búsqueda de imagen", err)
	}
	return imagen, nil
}
