package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"block:view",
		"block:submit",
		"state:view-own",
		"user:change_password",
	},
	"teacher": {
		"block:author",
		"block:view",
		"blocks:list",
		"state:view-all",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
