// Package endpoint implements the SCIM 2.0 resource endpoints: the five
// operation pipelines of RFC 7644 (create, get, list/search, replace,
// delete) on top of caller-supplied resource handlers.
//
// A Service is built from a capability configuration and one endpoint
// definition per resource type. The built-in /ServiceProviderConfig,
// /ResourceTypes and /Schemas endpoints are registered automatically.
//
//	svc, err := endpoint.NewService(sp, logger, &endpoint.EndpointDefinition{
//	    ResourceType: userType,
//	    Handler:      storage.NewHandler(),
//	})
//	if err != nil {
//	    return err
//	}
//	resp := svc.CreateResource("/Users", body, "", "", baseURL)
//
// Every pipeline returns a ScimResponse. Failures of any kind, from
// unparseable request bodies to handler bugs, are rendered as an
// *ErrorResponse carrying the RFC 7644 error document; pipelines never
// return Go errors to the caller.
//
// Handlers only implement storage: validation, attribute projection,
// pagination bounds, meta.location synthesis and, for resource types with
// auto-filtering enabled, filter evaluation all happen in this package.
package endpoint
