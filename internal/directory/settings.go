package directory

// Setting names of the per-domain directory configuration bundle.
const (
	SettingDomainNames       = "DomainNames"
	SettingServers           = "Servers"
	SettingBindDN            = "BindDN"
	SettingBindPass          = "BindPass"
	SettingBaseDN            = "BaseDN"
	SettingSearchFilter      = "SearchFilter"
	SettingSearchTree        = "SearchTree"
	SettingEncryptionType    = "EncryptionType"
	SettingUseLocal          = "UseLocal"
	SettingIsActiveDirectory = "IsActiveDirectory"
	SettingCacheGroupMap     = "CacheGroupMap"
	SettingMapGroups         = "MapGroups"
)

// settingDefaults declares every consumed setting together with its
// default value. A scalar default is broadcast to every domain the
// operator did not configure explicitly; false marks an unset optional
// value.
var settingDefaults = map[string]any{ //nolint:gochecknoglobals
	SettingDomainNames:       []string{},
	SettingServers:           false,
	SettingBindDN:            false,
	SettingBindPass:          false,
	SettingBaseDN:            false,
	SettingSearchFilter:      "(&(objectClass=user)(sAMAccountName={username}))",
	SettingSearchTree:        true,
	SettingEncryptionType:    false,
	SettingUseLocal:          false,
	SettingIsActiveDirectory: false,
	SettingCacheGroupMap:     1200, // seconds
	SettingMapGroups:         map[string]any{},
}
