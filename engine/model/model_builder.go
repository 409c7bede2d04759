package model

import (
	"github.com/Carmen-Shannon/oxy-bloom/common"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSource is an option builder that records where the Model was loaded from.
//
// Parameters:
//   - source: the path or URL
//
// Returns:
//   - ModelBuilderOption: a function that applies the source option to a model
func WithSource(source string) ModelBuilderOption {
	return func(m *model) {
		m.source = source
	}
}

// WithMeshes is an option builder that sets the meshes of the Model.
// Mesh bounds are recomputed from their vertices.
//
// Parameters:
//   - meshes: the meshes to attach
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes ...Mesh) ModelBuilderOption {
	return func(m *model) {
		for i := range meshes {
			meshes[i].ComputeBounds()
		}
		m.meshes = append(m.meshes, meshes...)
	}
}

// WithMaterials is an option builder that sets the imported materials of the Model.
//
// Parameters:
//   - materials: the imported material descriptions
//
// Returns:
//   - ModelBuilderOption: a function that applies the materials option to a model
func WithMaterials(materials ...common.ImportedMaterial) ModelBuilderOption {
	return func(m *model) {
		m.materials = append(m.materials, materials...)
	}
}
