package rbac

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	"instructor": {
		"quiz:create",
		"quiz:view",
		"quiz:edit_own",
		"question:manage",
		"choice:manage",
		"choice:view",
		"result:view_all",
		"result:manage",
		"student:list",
		"student:view",
		"student:manage",
		"instructor:view",
		"announcement:create",
		"announcement:delete",
		"event:view",
	},
	"student": {
		"quiz:view",
		"quiz:take",
		"result:view_own",
		"announcement:view_own",
	},
}
