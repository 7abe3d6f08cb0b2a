package secciones

import (
	"fmt"
	"strings"
	"time"
)

// Constructores genéricos de SQL sobre el registro de secciones.
// Un solo camino de upsert y uno de lectura+normalización reemplazan
// los 24 juegos de sentencias escritas a mano del sistema anterior.
// Las tablas heredadas son PascalCase, por eso todo identificador va citado.

func citar(identificador string) string {
	return `"` + identificador + `"`
}

// SQLUpsert construye el upsert atómico de una sección de una sola fila.
// Cada tabla de sección tiene índice único sobre HistoriaClinicaID, de modo
// que el INSERT ... ON CONFLICT elimina la carrera consulta-luego-escribe.
func SQLUpsert(d *Definicion) string {
	columnas := make([]string, 0, len(d.Campos)+1)
	marcadores := make([]string, 0, len(d.Campos)+1)
	asignaciones := make([]string, 0, len(d.Campos))

	columnas = append(columnas, citar(ColumnaFK))
	marcadores = append(marcadores, "$1")

	for i, campo := range d.Campos {
		columnas = append(columnas, citar(campo.Columna))
		marcadores = append(marcadores, fmt.Sprintf("$%d", i+2))
		asignaciones = append(asignaciones,
			fmt.Sprintf("%s = EXCLUDED.%s", citar(campo.Columna), citar(campo.Columna)))
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		citar(d.Tabla),
		strings.Join(columnas, ", "),
		strings.Join(marcadores, ", "),
		citar(ColumnaFK),
		strings.Join(asignaciones, ", "),
	)
}

// SQLInsert construye el insert simple (secciones de varias filas)
func SQLInsert(d *Definicion) string {
	columnas := make([]string, 0, len(d.Campos)+1)
	marcadores := make([]string, 0, len(d.Campos)+1)

	columnas = append(columnas, citar(ColumnaFK))
	marcadores = append(marcadores, "$1")

	for i, campo := range d.Campos {
		columnas = append(columnas, citar(campo.Columna))
		marcadores = append(marcadores, fmt.Sprintf("$%d", i+2))
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		citar(d.Tabla),
		strings.Join(columnas, ", "),
		strings.Join(marcadores, ", "),
	)
}

// SQLSelect construye la lectura de una sección por historia, en el orden
// de campos del registro para que la normalización sea posicional
func SQLSelect(d *Definicion) string {
	columnas := make([]string, 0, len(d.Campos))
	for _, campo := range d.Campos {
		columnas = append(columnas, citar(campo.Columna))
	}

	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		strings.Join(columnas, ", "),
		citar(d.Tabla),
		citar(ColumnaFK),
	)

	if d.Cardinalidad == Varias && d.OrdenLectura != "" {
		sql += fmt.Sprintf(" ORDER BY %s ASC", citar(d.OrdenLectura))
	}

	return sql
}

// SQLUpsertCampo fija una sola columna de una sección unitaria sin tocar
// el resto de la fila (vinculación de imágenes diagnósticas)
func SQLUpsertCampo(d *Definicion, columna string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s",
		citar(d.Tabla),
		citar(ColumnaFK),
		citar(columna),
		citar(ColumnaFK),
		citar(columna),
		citar(columna),
	)
}

// SQLDelete construye el borrado de las filas de una sección
// (reemplazo completo de agudezaVisual y cascada administrativa)
func SQLDelete(d *Definicion) string {
	return fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1",
		citar(d.Tabla),
		citar(ColumnaFK),
	)
}

// Valores produce los argumentos posicionales de un upsert/insert a partir
// del payload wire. Campos ausentes o vacíos se almacenan como NULL,
// nunca como error.
func Valores(d *Definicion, historiaID int64, payload map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(d.Campos)+1)
	args = append(args, historiaID)

	for _, campo := range d.Campos {
		args = append(args, coercer(campo.Tipo, payload[campo.Wire]))
	}

	return args
}

// coercer convierte un valor JSON decodificado al tipo de columna
func coercer(tipo TipoCampo, valor interface{}) interface{} {
	if valor == nil {
		return nil
	}

	switch v := valor.(type) {
	case string:
		if v == "" {
			return nil
		}
		return v
	case float64:
		if tipo == Entero {
			return int64(v)
		}
		return v
	case bool:
		return v
	case int:
		return int64(v)
	case int64:
		return v
	default:
		// Tipos no contemplados viajan tal cual; el driver decide
		return valor
	}
}

// Normalizar convierte la fila cruda de una sección a su contrato wire:
// los valores se emparejan posicionalmente con los campos del registro y
// las columnas legadas recuperan su nombre camelCase.
func Normalizar(d *Definicion, valores []interface{}) map[string]interface{} {
	fila := make(map[string]interface{}, len(d.Campos))

	for i, campo := range d.Campos {
		if i >= len(valores) {
			fila[campo.Wire] = nil
			continue
		}
		fila[campo.Wire] = normalizarValor(campo.Tipo, valores[i])
	}

	return fila
}

func normalizarValor(tipo TipoCampo, valor interface{}) interface{} {
	if valor == nil {
		return nil
	}

	switch v := valor.(type) {
	case time.Time:
		if tipo == Fecha {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	case int32:
		return int64(v)
	default:
		return valor
	}
}
