package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResourceFromPath(t *testing.T) {
	require.Equal(t, "usuarios", ResourceFromPath("/usuarios"))
	require.Equal(t, "usuarios", ResourceFromPath("/usuarios/15"))
	require.Equal(t, "vehiculos", ResourceFromPath("/Vehiculos/5/disponibilidad"))
	require.Equal(t, "", ResourceFromPath("/"))
	require.Equal(t, "", ResourceFromPath(""))
}

func TestVariantsPluralToSingular(t *testing.T) {
	r := NewResolver(nil)

	// "-es" plural strips two characters.
	require.Equal(t, []string{"ciudades", "ciudad"}, r.Variants("ciudades"))

	// plain "-s" plural strips one.
	require.Equal(t, []string{"usuarios", "usuario"}, r.Variants("usuarios"))
}

func TestVariantsSingularToPlural(t *testing.T) {
	r := NewResolver(nil)

	require.Equal(t, []string{"ciudad", "ciudads", "ciudades"}, r.Variants("ciudad"))
	require.Equal(t, []string{"vehiculo", "vehiculos", "vehiculoes"}, r.Variants("vehiculo"))
}

func TestVariantsAliasTakesPrecedence(t *testing.T) {
	r := NewResolver(map[string]string{"Buses": "autobuses"})

	variants := r.Variants("buses")
	require.Equal(t, "autobuses", variants[0], "alias must be tried before the heuristic")
	require.Contains(t, variants, "buses")
}

func TestVariantsFoldsCase(t *testing.T) {
	r := NewResolver(nil)
	require.Equal(t, []string{"ciudades", "ciudad"}, r.Variants("CIUDADES"))
}

func TestVariantsEmpty(t *testing.T) {
	r := NewResolver(nil)
	require.Nil(t, r.Variants(""))
}
