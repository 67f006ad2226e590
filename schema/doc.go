// Package schema is the reflection table the codec consults for property
// names, serialization behavior, value types and defaults.
//
// A database is loaded from YAML or JSON:
//
//	name: example
//	classes:
//	  Instance:
//	    properties:
//	      Name: {type: String, default: Instance}
//	  BasePart:
//	    superclass: Instance
//	    properties:
//	      Size: {type: Vector3}
//	      size: {aliasFor: Size}
//	      Color: {type: Color3, serializesAs: Color3uint8, serializedType: Color3uint8}
//	      Locked: {type: Bool, serialization: doesNotSerialize}
//
// Lookups walk the superclass chain and resolve aliases to the canonical
// property.
package schema
