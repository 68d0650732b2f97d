package errtrans

type entry struct {
	key   string
	value string
}

// defaultDictionary is ordered: substring matching takes the first key found.
var defaultDictionary = []entry{
	// Authentication
	{"Invalid Credentials", "Credenciais inválidas. Verifique seu e-mail e senha."},
	{"Invalid credentials", "Credenciais inválidas. Verifique seu e-mail e senha."},
	{"INVALID_CREDENTIALS", "Credenciais inválidas. Verifique seu e-mail e senha."},
	{"User already exists", "Este e-mail já está cadastrado."},
	{"Email already in use", "Este e-mail já está em uso."},
	{"User not found", "Usuário não encontrado."},
	{"Unauthorized", "Acesso não autorizado. Faça login novamente."},
	{"Token expired", "Sua sessão expirou. Faça login novamente."},
	{"Invalid token", "Token inválido. Faça login novamente."},

	// Validation
	{"Validation failed", "Erro de validação. Verifique os campos preenchidos."},
	{"Invalid email format", "Formato de e-mail inválido."},
	{"Password too weak", "Senha muito fraca. Use uma senha mais segura."},
	{"Required field", "Este campo é obrigatório."},

	// Server
	{"Internal server error", "Erro interno do servidor. Tente novamente mais tarde."},
	{"Service unavailable", "Serviço temporariamente indisponível. Tente novamente."},
	{"Bad gateway", "Erro de comunicação com o servidor."},
	{"Gateway timeout", "Tempo limite de conexão excedido."},

	// Network
	{"Network error", "Erro de conexão. Verifique sua internet."},
	{"Connection refused", "Não foi possível conectar ao servidor."},
	{"Timeout", "A requisição demorou muito. Tente novamente."},

	// Generic
	{"Not found", "Recurso não encontrado."},
	{"Forbidden", "Você não tem permissão para acessar este recurso."},
	{"Conflict", "Conflito ao processar a requisição."},
	{"Unknown error", "Erro desconhecido. Tente novamente."},
}
