package cgi

// MetaVariable is a recognized CGI meta-variable. The set is closed: anything
// that does not parse with ParseMetaVariable is not a meta-variable.
//
// https://datatracker.ietf.org/doc/html/rfc3875#section-4.1
type MetaVariable int

const (
	AuthType MetaVariable = iota
	ContentLength
	ContentType
	GatewayInterface
	PathInfo
	PathTranslated
	QueryString
	RemoteAddr
	RemoteHost
	RemoteUser
	RequestIdent
	RequestMethod
	ScriptName
	ServerName
	ServerPort
	ServerProtocol
	ServerSoftware

	// Apache suexec safe variables
	ContextDocumentRoot
	ContextPrefix
	DateGMT
	DateLocal
	DocumentName
	DocumentPathInfo
	DocumentRoot
	DocumentURI
	HTTPS
	LastModified
	Path
	QueryStringUnescaped
	RedirectErrorNotes
	RedirectHandler
	RedirectQueryString
	RedirectRemoteUser
	RedirectScriptFilename
	RedirectStatus
	RedirectURL
	RemoteIdent
	RemotePort
	RequestScheme
	RequestURI
	ScriptFilename
	ScriptURI
	ScriptURL
	ServerAddr
	ServerAdmin
	ServerSignature
	TZ
	UniqueID
	UserName

	numMetaVariables
)

var metaVariableNames = [numMetaVariables]string{
	AuthType:         "AUTH_TYPE",
	ContentLength:    "CONTENT_LENGTH",
	ContentType:      "CONTENT_TYPE",
	GatewayInterface: "GATEWAY_INTERFACE",
	PathInfo:         "PATH_INFO",
	PathTranslated:   "PATH_TRANSLATED",
	QueryString:      "QUERY_STRING",
	RemoteAddr:       "REMOTE_ADDR",
	RemoteHost:       "REMOTE_HOST",
	RemoteUser:       "REMOTE_USER",
	RequestIdent:     "REQUEST_IDENT",
	RequestMethod:    "REQUEST_METHOD",
	ScriptName:       "SCRIPT_NAME",
	ServerName:       "SERVER_NAME",
	ServerPort:       "SERVER_PORT",
	ServerProtocol:   "SERVER_PROTOCOL",
	ServerSoftware:   "SERVER_SOFTWARE",

	ContextDocumentRoot:    "CONTEXT_DOCUMENT_ROOT",
	ContextPrefix:          "CONTEXT_PREFIX",
	DateGMT:                "DATE_GMT",
	DateLocal:              "DATE_LOCAL",
	DocumentName:           "DOCUMENT_NAME",
	DocumentPathInfo:       "DOCUMENT_PATH_INFO",
	DocumentRoot:           "DOCUMENT_ROOT",
	DocumentURI:            "DOCUMENT_URI",
	HTTPS:                  "HTTPS",
	LastModified:           "LAST_MODIFIED",
	Path:                   "PATH",
	QueryStringUnescaped:   "QUERY_STRING_UNESCAPED",
	RedirectErrorNotes:     "REDIRECT_ERROR_NOTES",
	RedirectHandler:        "REDIRECT_HANDLER",
	RedirectQueryString:    "REDIRECT_QUERY_STRING",
	RedirectRemoteUser:     "REDIRECT_REMOTE_USER",
	RedirectScriptFilename: "REDIRECT_SCRIPT_FILENAME",
	RedirectStatus:         "REDIRECT_STATUS",
	RedirectURL:            "REDIRECT_URL",
	RemoteIdent:            "REMOTE_IDENT",
	RemotePort:             "REMOTE_PORT",
	RequestScheme:          "REQUEST_SCHEME",
	RequestURI:             "REQUEST_URI",
	ScriptFilename:         "SCRIPT_FILENAME",
	ScriptURI:              "SCRIPT_URI",
	ScriptURL:              "SCRIPT_URL",
	ServerAddr:             "SERVER_ADDR",
	ServerAdmin:            "SERVER_ADMIN",
	ServerSignature:        "SERVER_SIGNATURE",
	TZ:                     "TZ",
	UniqueID:               "UNIQUE_ID",
	UserName:               "USER_NAME",
}

var metaVariablesByName = func() map[string]MetaVariable {
	m := make(map[string]MetaVariable, numMetaVariables)
	for k, name := range metaVariableNames {
		m[name] = MetaVariable(k)
	}
	return m
}()

// String returns the wire name, e.g. REQUEST_METHOD.
func (m MetaVariable) String() string {
	if m < 0 || m >= numMetaVariables {
		return "MetaVariable(?)"
	}
	return metaVariableNames[m]
}

// ParseMetaVariable maps a wire name back to its MetaVariable. ok is false for
// any name outside the registry.
func ParseMetaVariable(name string) (m MetaVariable, ok bool) {
	m, ok = metaVariablesByName[name]
	return m, ok
}

// MetaVariables returns every registered meta-variable in declaration order.
func MetaVariables() []MetaVariable {
	all := make([]MetaVariable, numMetaVariables)
	for i := range all {
		all[i] = MetaVariable(i)
	}
	return all
}
